package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-registration/internal/domain/event"
	"github.com/sanosuguru/go-event-registration/internal/domain/registration"
	redisinfra "github.com/sanosuguru/go-event-registration/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-registration/internal/pkg/logger"
)

type EventService struct {
	eventRepo        event.Repository
	registrationRepo registration.Repository
	countCache       redisinfra.CountCacheInterface
	now              func() time.Time
}

// NewEventService は EventService を作成する
// countCache が nil の場合は登録数を毎回DBから数える
func NewEventService(eventRepo event.Repository, registrationRepo registration.Repository, countCache redisinfra.CountCacheInterface, opts ...Option) *EventService {
	o := newOptions(opts)
	return &EventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		countCache:       countCache,
		now:              o.now,
	}
}

type CreateEventInput struct {
	Title    string
	DateTime time.Time
	Location string
	Capacity int
}

// EventDetail はイベントと登録ユーザーの一覧
type EventDetail struct {
	Event           *event.Event
	RegisteredUsers []*registration.RegisteredUser
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Title, input.DateTime, input.Location, input.Capacity)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return e, nil
}

func (s *EventService) GetEventDetail(ctx context.Context, id string) (*EventDetail, error) {
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.registrationRepo.ListUsersByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: ev, RegisteredUsers: users}, nil
}

// ListUpcomingEvents は現在時刻より後に開催されるイベントを返す
func (s *EventService) ListUpcomingEvents(ctx context.Context) ([]*event.Event, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, err
	}
	// 並び順はリポジトリ実装に依存させない
	event.SortUpcoming(events)
	return events, nil
}

// CountUpcomingEvents は開催前のイベント数を返す
func (s *EventService) CountUpcomingEvents(ctx context.Context) (int, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

func (s *EventService) GetEventStats(ctx context.Context, id string) (event.Stats, error) {
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return event.Stats{}, err
	}
	count, err := s.registrationCount(ctx, id)
	if err != nil {
		return event.Stats{}, err
	}
	return ev.Stats(count), nil
}

// registrationCount はキャッシュを優先して登録数を返す
// キャッシュの障害は統計の取得を妨げない
func (s *EventService) registrationCount(ctx context.Context, eventID string) (int, error) {
	if s.countCache == nil {
		return s.registrationRepo.CountByEvent(ctx, eventID)
	}
	log := logger.FromContext(ctx)

	count, err := s.countCache.GetCount(ctx, eventID)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, redisinfra.ErrCacheMiss) {
		log.Warn("登録数キャッシュの取得に失敗", zap.String("event_id", eventID), zap.Error(err))
	}

	// 世代はDBを読む前に取得する。読み取り中に無効化されていれば保存されない
	version, verErr := s.countCache.Version(ctx, eventID)
	if verErr != nil {
		log.Warn("登録数キャッシュの世代取得に失敗", zap.String("event_id", eventID), zap.Error(verErr))
	}

	count, err = s.registrationRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if verErr == nil {
		err := s.countCache.SetCount(ctx, eventID, count, version)
		switch {
		case errors.Is(err, redisinfra.ErrStaleCount):
			log.Debug("登録数が更新されたためキャッシュ保存をスキップ", zap.String("event_id", eventID))
		case err != nil:
			log.Warn("登録数キャッシュの保存に失敗", zap.String("event_id", eventID), zap.Error(err))
		}
	}
	return count, nil
}
