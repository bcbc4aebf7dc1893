package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swapsafe/swapsafe-backend/api/controllers"
	"github.com/swapsafe/swapsafe-backend/api/middleware"
	"github.com/swapsafe/swapsafe-backend/internal/auth"
	"github.com/swapsafe/swapsafe-backend/internal/dashboard"
	"github.com/swapsafe/swapsafe-backend/internal/disputes"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/internal/wishlist"
	"github.com/swapsafe/swapsafe-backend/pkg/auth/session"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
	"github.com/swapsafe/swapsafe-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// redisStore is the slice of the redis client the middleware stack uses.
type redisStore interface {
	redis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    redisStore
	Sessions sessionManager
	Gatherer prometheus.Gatherer

	Auth          auth.Service
	Products      products.Service
	Transactions  transactions.Service
	Disputes      disputes.Service
	Notifications notifications.Service
	Dashboard     dashboard.Service
	Wishlist      wishlist.Service

	Simulator           *notifications.Simulator
	NotificationMetrics *metrics.NotificationMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	evidenceLimits := disputes.Limits{MaxFiles: cfg.Evidence.MaxFiles, MaxBytes: cfg.Evidence.MaxFileBytes()}

	ready := map[string]controllers.Pinger{"db": deps.DB}
	if p, ok := deps.Redis.(controllers.Pinger); ok {
		ready["redis"] = p
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		})

		// browsing is public
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Post("/products/{productId}/purchase", controllers.PurchaseProduct(deps.Transactions, logg))
			r.Put("/products/{productId}/favorite", controllers.AddFavorite(deps.Wishlist, logg))
			r.Delete("/products/{productId}/favorite", controllers.RemoveFavorite(deps.Wishlist, logg))
			r.Get("/favorites", controllers.ListFavorites(deps.Wishlist, logg))

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", controllers.ListTransactions(deps.Transactions, logg))
				r.Get("/{id}", controllers.GetTransaction(deps.Transactions, logg))
				r.Post("/{id}/actions", controllers.TransactionAction(deps.Transactions, logg))
				r.Get("/{id}/disputes", controllers.ListDisputes(deps.Disputes, logg))
				r.Post("/{id}/disputes", controllers.SubmitDispute(deps.Disputes, evidenceLimits, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Get("/unread-count", controllers.UnreadNotificationCount(deps.Notifications, logg))
				r.Get("/stream", controllers.NotificationStream(controllers.StreamParams{
					Notifications:  deps.Notifications,
					Simulator:      deps.Simulator,
					Metrics:        deps.NotificationMetrics,
					AllowedOrigins: cfg.App.AllowedOrigins,
					Logger:         logg,
				}))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Delete("/{notificationId}", controllers.DeleteNotification(deps.Notifications, logg))
			})

			r.Get("/dashboard", controllers.Dashboard(deps.Dashboard, logg))
		})
	})

	return r
}
