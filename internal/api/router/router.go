package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-coworking-reservation/internal/api/handler"
	"github.com/sanosuguru/go-coworking-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-coworking-reservation/internal/config"
	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/metrics"
)

// Handlers はルーティングに登録するハンドラー一式
type Handlers struct {
	Reservation  *handler.ReservationHandler
	Availability *handler.AvailabilityHandler
	Space        *handler.SpaceHandler
	Area         *handler.AreaHandler
	Admin        *handler.AdminHandler
	Health       *handler.HealthHandler
}

// Options はルーティングの設定
type Options struct {
	RateLimit config.RateLimitConfig
	Admin     config.BasicAuthConfig
	Metrics   config.BasicAuthConfig
	// Gatherer が nil ならデフォルトレジストリを公開する
	Gatherer prometheus.Gatherer
	// Collectors はレート制限の拒否数の記録先。nil なら記録しない
	Collectors *metrics.Metrics
}

// Register は全ルートを登録する
func Register(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/health", h.Health.Check)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics",
		echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(opts.Metrics.User, opts.Metrics.Password),
	)

	v1 := e.Group("/api/v1")
	limit := middleware.RateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst, opts.Collectors)

	// 予約
	reservations := v1.Group("/reservations")
	reservations.POST("", h.Reservation.Create, limit)
	reservations.GET("", h.Reservation.GetUserReservations)
	reservations.GET("/:id", h.Reservation.GetByID)
	reservations.POST("/:id/confirm", h.Reservation.Confirm, limit)
	reservations.POST("/:id/cancel", h.Reservation.Cancel, limit)

	// スペースとエリア
	spaces := v1.Group("/spaces")
	spaces.POST("", h.Space.Create)
	spaces.GET("/:id", h.Space.GetByID)
	spaces.GET("/:space_id/availability", h.Availability.Check)
	spaces.GET("/:space_id/areas", h.Area.List)
	spaces.POST("/:space_id/areas", h.Area.Create)
	v1.PUT("/areas/:id", h.Area.Update)

	// 運営
	admin := v1.Group("/admin", middleware.AdminBasicAuth(opts.Admin.User, opts.Admin.Password))
	admin.POST("/spaces/:id/approve", h.Admin.ApproveSpace)
	admin.POST("/spaces/:id/reject", h.Admin.RejectSpace)
	admin.POST("/reservations/complete-expired", h.Admin.CompleteExpired)
}
