package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kejahlabs/kejah-backend/api/controllers"
	"github.com/kejahlabs/kejah-backend/api/middleware"
	"github.com/kejahlabs/kejah-backend/internal/auth"
	"github.com/kejahlabs/kejah-backend/internal/describe"
	"github.com/kejahlabs/kejah-backend/internal/feedback"
	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/internal/media"
	"github.com/kejahlabs/kejah-backend/internal/notifications"
	"github.com/kejahlabs/kejah-backend/internal/users"
	"github.com/kejahlabs/kejah-backend/pkg/auth/session"
	"github.com/kejahlabs/kejah-backend/pkg/bigquery"
	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/enums"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
	"github.com/kejahlabs/kejah-backend/pkg/metrics"
	pkgredis "github.com/kejahlabs/kejah-backend/pkg/redis"
	"github.com/kejahlabs/kejah-backend/pkg/storage/gcs"
)

// Deps bundles everything the HTTP surface needs. Optional entries may be
// nil; the affected endpoints then answer with an internal error instead
// of panicking at startup.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	DB       db.Pinger
	Redis    *pkgredis.Client
	GCS      gcs.Pinger
	BigQuery bigquery.Pinger

	SessionVerifier session.AccessSessionChecker
	AuthService     auth.Service
	PhoneService    auth.PhoneService
	UsersService    users.Service
	ListingsService listings.Service
	MediaService    media.Service
	BillingService  controllers.PaymentsService
	Notifications   *notifications.Service
	Feedback        *feedback.Service
	Describe        *describe.Service

	MetricsHandler http.Handler
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(d.Metrics),
	)

	// A nil *redis.Client stored in an interface would dodge the nil
	// checks inside the middlewares, so the conversion happens here.
	var (
		limiterStore pkgredis.RateLimiter
		idemStore    pkgredis.IdempotencyStore
		cachePinger  pkgredis.Pinger
	)
	if d.Redis != nil {
		limiterStore = d.Redis
		idemStore = d.Redis
		cachePinger = d.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, cachePinger, d.GCS, d.BigQuery))
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface.
		r.Get("/listings", controllers.ListListings(d.ListingsService, logg))
		r.Get("/listings/{listingId}", controllers.GetListing(d.ListingsService, logg))
		r.Get("/agents", controllers.ListAgents(d.UsersService, logg))
		r.Get("/agents/{agentId}", controllers.GetAgent(d.UsersService, logg))
		r.Post("/feedback", controllers.SubmitFeedback(d.Feedback, logg))
		r.Post("/contact", controllers.SubmitContact(d.Feedback, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, limiterStore, logg),
				middleware.Idempotency(idemStore, logg),
			).Post("/register", controllers.AuthRegister(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
				Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
				Post("/google", controllers.AuthGoogle(d.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
		})

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionVerifier, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/users/me", controllers.UsersMe(d.UsersService, logg))
			r.Patch("/users/me", controllers.UsersUpdateMe(d.UsersService, logg))

			r.Post("/auth/phone/start", controllers.PhoneStart(d.PhoneService, logg))
			r.Post("/auth/phone/confirm", controllers.PhoneConfirm(d.PhoneService, logg))

			r.With(middleware.RequireRole(string(enums.UserRoleAgent), logg)).
				Post("/listings", controllers.CreateListing(d.ListingsService, logg))
			r.Post("/listings/{listingId}/report", controllers.ReportListing(d.ListingsService, logg))

			r.Post("/media", controllers.MediaUpload(d.MediaService, logg))
			r.Get("/media", controllers.MediaList(d.MediaService, logg))
			r.Delete("/media/{mediaId}", controllers.MediaDelete(d.MediaService, logg))

			r.Post("/describe", controllers.DescribeListing(d.Describe, logg))
			r.Get("/payments", controllers.ListPayments(d.BillingService, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(d.Notifications, logg))
				r.Get("/unread-count", controllers.NotificationsUnreadCount(d.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(d.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(d.Notifications, logg))
			})
		})
	})

	return r
}
