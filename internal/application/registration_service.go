package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-registration/internal/domain/event"
	"github.com/sanosuguru/go-event-registration/internal/domain/registration"
	"github.com/sanosuguru/go-event-registration/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-event-registration/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-registration/internal/pkg/logger"
	"github.com/sanosuguru/go-event-registration/internal/pkg/metrics"
)

const (
	registrationLockTTL   = 5 * time.Second
	registrationLockRetry = 3
	registrationLockDelay = 50 * time.Millisecond
)

type RegistrationService struct {
	txManager        transaction.Manager
	eventRepo        event.Repository
	registrationRepo registration.Repository
	lockManager      redisinfra.LockManagerInterface
	countCache       redisinfra.CountCacheInterface
	now              func() time.Time
}

// NewRegistrationService は RegistrationService を作成する
// lockManager と countCache は nil でもよい
func NewRegistrationService(
	txm transaction.Manager,
	er event.Repository,
	rr registration.Repository,
	lm redisinfra.LockManagerInterface,
	cc redisinfra.CountCacheInterface,
	opts ...Option,
) *RegistrationService {
	o := newOptions(opts)
	return &RegistrationService{
		txManager:        txm,
		eventRepo:        er,
		registrationRepo: rr,
		lockManager:      lm,
		countCache:       cc,
		now:              o.now,
	}
}

// Register はユーザーをイベントに参加登録する
// イベント行をロックしたトランザクション内で 開催済み → 重複 → 定員 の順に判定する
func (s *RegistrationService) Register(ctx context.Context, eventID, userID string) error {
	reg := registration.NewRegistration(userID, eventID)
	reg.CreatedAt = s.now()
	if err := reg.Validate(); err != nil {
		return err
	}

	if lock := s.acquireEventLock(ctx, eventID); lock != nil {
		defer func() {
			if err := lock.Release(ctx); err != nil {
				logger.FromContext(ctx).Warn("参加登録ロックの解放に失敗", zap.String("event_id", eventID), zap.Error(err))
			}
		}()
	}

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		exists, err := s.registrationRepo.Exists(ctx, tx, reg.UserID, eventID)
		if err != nil {
			return err
		}
		count, err := s.registrationRepo.CountByEventTx(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if err := registration.Admit(ev, s.now(), exists, count); err != nil {
			return err
		}
		return s.registrationRepo.Create(ctx, tx, reg)
	})
	recordRegistration(registrationResult(err))
	if err != nil {
		return err
	}

	s.invalidateCount(ctx, eventID)
	return nil
}

// Cancel は参加登録を取り消す
// user_id は Register と同じく NewRegistration で正規化する
func (s *RegistrationService) Cancel(ctx context.Context, eventID, userID string) error {
	reg := registration.NewRegistration(userID, eventID)
	if reg.UserID == "" {
		recordCancellation(metrics.ResultNotRegistered)
		return registration.ErrNotRegistered
	}

	deleted, err := s.registrationRepo.Delete(ctx, reg.UserID, reg.EventID)
	if err != nil {
		recordCancellation(metrics.ResultError)
		return fmt.Errorf("キャンセル処理に失敗: %w", err)
	}
	if !deleted {
		recordCancellation(metrics.ResultNotRegistered)
		return registration.ErrNotRegistered
	}
	recordCancellation(metrics.ResultCancelled)

	s.invalidateCount(ctx, eventID)
	return nil
}

// CountRegistrations は全イベントの登録総数を返す
func (s *RegistrationService) CountRegistrations(ctx context.Context) (int, error) {
	return s.registrationRepo.CountAll(ctx)
}

// acquireEventLock はイベント単位のロックを取得する
// 取得できなくても行ロックで直列化されるため処理は続行する
func (s *RegistrationService) acquireEventLock(ctx context.Context, eventID string) redisinfra.Lock {
	if s.lockManager == nil {
		return nil
	}
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, redisinfra.EventLockKey(eventID), registrationLockTTL, registrationLockRetry, registrationLockDelay)
	if err != nil {
		recordRegistration(metrics.ResultLockFailed)
		logger.FromContext(ctx).Warn("参加登録ロックの取得に失敗", zap.String("event_id", eventID), zap.Error(err))
		return nil
	}
	return lock
}

func (s *RegistrationService) invalidateCount(ctx context.Context, eventID string) {
	if s.countCache == nil {
		return
	}
	if err := s.countCache.Invalidate(ctx, eventID); err != nil {
		logger.FromContext(ctx).Warn("登録数キャッシュの無効化に失敗", zap.String("event_id", eventID), zap.Error(err))
	}
}

func registrationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, event.ErrEventNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, registration.ErrPastEvent):
		return metrics.ResultPastEvent
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return metrics.ResultDuplicate
	case errors.Is(err, registration.ErrEventFull):
		return metrics.ResultFull
	default:
		return metrics.ResultError
	}
}

func recordRegistration(result string) {
	if m := metrics.Get(); m != nil {
		m.RegistrationsTotal.WithLabelValues(result).Inc()
	}
}

func recordCancellation(result string) {
	if m := metrics.Get(); m != nil {
		m.CancellationsTotal.WithLabelValues(result).Inc()
	}
}
