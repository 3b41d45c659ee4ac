package handler

import "github.com/labstack/echo/v4"

// Handlers はルーティング対象のハンドラー一式
type Handlers struct {
	Event        *EventHandler
	Registration *RegistrationHandler
	Health       *HealthHandler
}

// RegisterRoutes は API のルートを登録する
// writeLimit は登録・キャンセルなど状態を変更するルートにのみ適用する
func RegisterRoutes(e *echo.Echo, h Handlers, writeLimit ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Check)

	events := e.Group("/api/events")
	events.POST("", h.Event.Create, writeLimit...)
	events.GET("/upcoming", h.Event.ListUpcoming)
	events.GET("/:id", h.Event.GetByID)
	events.GET("/:id/stats", h.Event.Stats)
	events.POST("/:id/register", h.Registration.Register, writeLimit...)
	events.DELETE("/:id/cancel/:userId", h.Registration.Cancel, writeLimit...)
}
