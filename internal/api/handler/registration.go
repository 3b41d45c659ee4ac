package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-registration/internal/domain/registration"
)

const (
	msgRegistered = "参加登録が完了しました"
	msgCancelled  = "参加登録をキャンセルしました"
)

type RegistrationHandler struct {
	registrationService RegistrationServiceInterface
}

func NewRegistrationHandler(registrationService RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// UserID は JSON の文字列・数値のどちらでも受け付けるユーザーID
type UserID string

func (u *UserID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*u = UserID(n.String())
		return nil
	}
	return errors.New("user_id は文字列または数値で指定してください")
}

type RegisterRequest struct {
	UserID UserID `json:"user_id" validate:"required" example:"42"`
}

type MessageResponse struct {
	Message string `json:"message" example:"参加登録が完了しました"`
}

// Register godoc
// @Summary イベントに参加登録
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body RegisterRequest true "登録するユーザー"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /events/{id}/register [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	eventID := c.Param("id")
	if !isEventID(eventID) {
		return errEventNotFound()
	}

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return toHTTPError(registration.ErrUserIDRequired)
	}

	if err := h.registrationService.Register(c.Request().Context(), eventID, string(req.UserID)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: msgRegistered})
}

// Cancel godoc
// @Summary 参加登録をキャンセル
// @Tags registrations
// @Produce json
// @Param id path string true "イベントID"
// @Param userId path string true "ユーザーID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /events/{id}/cancel/{userId} [delete]
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	eventID := c.Param("id")
	if !isEventID(eventID) {
		// 存在しないイベントの登録は存在しない
		return toHTTPError(registration.ErrNotRegistered)
	}

	if err := h.registrationService.Cancel(c.Request().Context(), eventID, c.Param("userId")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msgCancelled})
}
