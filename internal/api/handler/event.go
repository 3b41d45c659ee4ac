package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-registration/internal/application"
	"github.com/sanosuguru/go-event-registration/internal/domain/event"
	"github.com/sanosuguru/go-event-registration/internal/domain/registration"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest はイベント作成リクエスト
// capacity は 0 と未指定を区別するためポインタで受け取る
type CreateEventRequest struct {
	Title    string `json:"title" validate:"required" example:"Go勉強会"`
	DateTime string `json:"date_time" validate:"required" example:"2025-12-31T18:00:00+09:00"`
	Location string `json:"location" validate:"required" example:"東京"`
	Capacity *int   `json:"capacity" validate:"required" example:"100"`
}

type CreateEventResponse struct {
	EventID string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

type EventResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title     string `json:"title" example:"Go勉強会"`
	DateTime  string `json:"date_time" example:"2025-12-31T18:00:00+09:00"`
	Location  string `json:"location" example:"東京"`
	Capacity  int    `json:"capacity" example:"100"`
	CreatedAt string `json:"created_at" example:"2025-12-06T10:00:00+09:00"`
}

type RegisteredUserResponse struct {
	ID    string `json:"id" example:"42"`
	Name  string `json:"name" example:"山田太郎"`
	Email string `json:"email" example:"taro@example.com"`
}

// EventDetailResponse はイベントの各項目に登録ユーザー一覧を加えたもの
type EventDetailResponse struct {
	EventResponse
	RegisteredUsers []RegisteredUserResponse `json:"registered_users"`
}

type EventStatsResponse struct {
	TotalRegistrations int    `json:"total_registrations" example:"42"`
	RemainingCapacity  int    `json:"remaining_capacity" example:"58"`
	PercentFull        string `json:"percent_full" example:"42.00%"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		Title:     e.Title,
		DateTime:  e.DateTime.Format(time.RFC3339),
		Location:  e.Location,
		Capacity:  e.Capacity,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func toEventDetailResponse(d *application.EventDetail) EventDetailResponse {
	users := make([]RegisteredUserResponse, len(d.RegisteredUsers))
	for i, u := range d.RegisteredUsers {
		users[i] = toRegisteredUserResponse(u)
	}
	return EventDetailResponse{
		EventResponse:   toEventResponse(d.Event),
		RegisteredUsers: users,
	}
}

func toRegisteredUserResponse(u *registration.RegisteredUser) RegisteredUserResponse {
	return RegisteredUserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} CreateEventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return toHTTPError(event.ErrMissingField)
	}

	dateTime, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return toHTTPError(event.ErrInvalidDateTime)
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Title:    req.Title,
		DateTime: dateTime,
		Location: req.Location,
		Capacity: *req.Capacity,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, CreateEventResponse{EventID: e.ID})
}

// GetByID godoc
// @Summary イベント詳細を取得
// @Description 指定IDのイベントと登録ユーザーの一覧を取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventDetailResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	if !isEventID(id) {
		return errEventNotFound()
	}

	detail, err := h.eventService.GetEventDetail(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventDetailResponse(detail))
}

// ListUpcoming godoc
// @Summary 開催予定のイベント一覧
// @Description 現在時刻より後のイベントを開催日時・会場名の昇順で返します
// @Tags events
// @Produce json
// @Success 200 {array} EventResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /events/upcoming [get]
func (h *EventHandler) ListUpcoming(c echo.Context) error {
	events, err := h.eventService.ListUpcomingEvents(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// Stats godoc
// @Summary イベントの登録状況
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventStatsResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /events/{id}/stats [get]
func (h *EventHandler) Stats(c echo.Context) error {
	id := c.Param("id")
	if !isEventID(id) {
		return errEventNotFound()
	}

	stats, err := h.eventService.GetEventStats(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, EventStatsResponse{
		TotalRegistrations: stats.TotalRegistrations,
		RemainingCapacity:  stats.RemainingCapacity,
		PercentFull:        stats.PercentFullString(),
	})
}

// isEventID はイベントIDとして解釈できる値か判定する
func isEventID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
