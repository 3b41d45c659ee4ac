package handler

import (
	"context"

	"github.com/sanosuguru/go-event-registration/internal/application"
	"github.com/sanosuguru/go-event-registration/internal/domain/event"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEventDetail(ctx context.Context, id string) (*application.EventDetail, error)
	ListUpcomingEvents(ctx context.Context) ([]*event.Event, error)
	GetEventStats(ctx context.Context, id string) (event.Stats, error)
}

// RegistrationServiceInterface は参加登録サービスのインターフェース
type RegistrationServiceInterface interface {
	Register(ctx context.Context, eventID, userID string) error
	Cancel(ctx context.Context, eventID, userID string) error
}
