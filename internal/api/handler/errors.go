package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-registration/internal/api"
	"github.com/sanosuguru/go-event-registration/internal/domain/event"
	"github.com/sanosuguru/go-event-registration/internal/domain/registration"
)

// 入力不備・業務ルール違反はいずれも 400
var badRequestErrors = []error{
	event.ErrMissingField,
	event.ErrInvalidCapacity,
	event.ErrInvalidDateTime,
	registration.ErrPastEvent,
	registration.ErrAlreadyRegistered,
	registration.ErrEventFull,
	registration.ErrNotRegistered,
	registration.ErrUserIDRequired,
	registration.ErrEventIDRequired,
}

// toHTTPError はサービス層のエラーをHTTPエラーに変換する
// 未知のエラーは原因を内部に保持した 500 になる
func toHTTPError(err error) error {
	if errors.Is(err, event.ErrEventNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, event.ErrEventNotFound.Error())
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, target.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, api.InternalErrorMessage).SetInternal(err)
}

func errEventNotFound() error {
	return toHTTPError(event.ErrEventNotFound)
}
