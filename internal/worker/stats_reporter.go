package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-registration/internal/pkg/logger"
	"github.com/sanosuguru/go-event-registration/internal/pkg/metrics"
)

// UpcomingCounter は開催前イベント数を数えるインターフェース
type UpcomingCounter interface {
	CountUpcomingEvents(ctx context.Context) (int, error)
}

// RegistrationCounter は登録総数を数えるインターフェース
type RegistrationCounter interface {
	CountRegistrations(ctx context.Context) (int, error)
}

// StatsReporter は定期的に登録状況をゲージに反映するワーカー
type StatsReporter struct {
	events        UpcomingCounter
	registrations RegistrationCounter
	metrics       *metrics.Metrics
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
	stopOnce      sync.Once
}

const defaultReportInterval = time.Minute

// NewStatsReporter は新しいレポーターを作成
// interval が 0 以下の場合は defaultReportInterval を使う
func NewStatsReporter(
	events UpcomingCounter,
	registrations RegistrationCounter,
	m *metrics.Metrics,
	interval time.Duration,
) *StatsReporter {
	if interval <= 0 {
		interval = defaultReportInterval
	}
	return &StatsReporter{
		events:        events,
		registrations: registrations,
		metrics:       m,
		interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start はレポーターを開始する
// 起動直後に一度集計し、以降は interval ごとに集計する
func (r *StatsReporter) Start(ctx context.Context) {
	logger.Info("登録状況レポーター開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	r.report(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("登録状況レポーター停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("登録状況レポーター停止（シグナル受信）")
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// Stop はレポーターを停止し、終了を待つ
func (r *StatsReporter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

// report は集計結果をゲージに反映する
func (r *StatsReporter) report(ctx context.Context) {
	log := logger.Get()

	upcoming, err := r.events.CountUpcomingEvents(ctx)
	if err != nil {
		log.Error("開催前イベント数の集計失敗", zap.Error(err))
	} else {
		r.metrics.UpcomingEvents.Set(float64(upcoming))
	}

	total, err := r.registrations.CountRegistrations(ctx)
	if err != nil {
		log.Error("登録総数の集計失敗", zap.Error(err))
	} else {
		r.metrics.CurrentRegistrations.Set(float64(total))
	}

	log.Debug("登録状況を集計", zap.Int("upcoming_events", upcoming), zap.Int("registrations", total))
}
