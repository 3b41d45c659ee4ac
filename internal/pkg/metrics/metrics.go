package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 登録試行の結果ラベル
const (
	ResultSuccess       = "success"
	ResultNotFound      = "not_found"
	ResultPastEvent     = "past_event"
	ResultDuplicate     = "duplicate"
	ResultFull          = "full"
	ResultLockFailed    = "lock_failed"
	ResultError         = "error"
	ResultCancelled     = "cancelled"
	ResultNotRegistered = "not_registered"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 参加登録の試行数（result: success, duplicate, full, ...）
	RegistrationsTotal *prometheus.CounterVec

	// キャンセルの試行数（result: cancelled, not_registered, error）
	CancellationsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 登録数キャッシュの参照結果（result: hit/miss/error）
	CacheLookupsTotal *prometheus.CounterVec

	// 開催前イベント数
	UpcomingEvents prometheus.Gauge

	// 現在の登録総数
	CurrentRegistrations prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_registrations_total",
				Help: "Total number of event registration attempts by result",
			},
			[]string{"result"},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_cancellations_total",
				Help: "Total number of registration cancellation attempts by result",
			},
			[]string{"result"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registration_count_cache_lookups_total",
				Help: "Registration count cache lookups by result",
			},
			[]string{"result"},
		),
		UpcomingEvents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "upcoming_events",
				Help: "Number of events scheduled after now",
			},
		),
		CurrentRegistrations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "registrations_current",
				Help: "Current number of registrations across all events",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RegistrationsTotal,
		m.CancellationsTotal,
		m.DistributedLockDuration,
		m.CacheLookupsTotal,
		m.UpcomingEvents,
		m.CurrentRegistrations,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
