package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kejahlabs/kejah-backend/api/routes"
	"github.com/kejahlabs/kejah-backend/internal/auth"
	"github.com/kejahlabs/kejah-backend/internal/billing"
	"github.com/kejahlabs/kejah-backend/internal/describe"
	"github.com/kejahlabs/kejah-backend/internal/events"
	"github.com/kejahlabs/kejah-backend/internal/feedback"
	"github.com/kejahlabs/kejah-backend/internal/listings"
	"github.com/kejahlabs/kejah-backend/internal/media"
	"github.com/kejahlabs/kejah-backend/internal/notifications"
	"github.com/kejahlabs/kejah-backend/internal/users"
	"github.com/kejahlabs/kejah-backend/pkg/auth/session"
	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
	"github.com/kejahlabs/kejah-backend/pkg/maps"
	"github.com/kejahlabs/kejah-backend/pkg/metrics"
	"github.com/kejahlabs/kejah-backend/pkg/migrate"
	"github.com/kejahlabs/kejah-backend/pkg/openai"
	"github.com/kejahlabs/kejah-backend/pkg/pubsub"
	"github.com/kejahlabs/kejah-backend/pkg/redis"
	"github.com/kejahlabs/kejah-backend/pkg/square"
	"github.com/kejahlabs/kejah-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.Resolve(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	usersService := users.NewService(usersRepo)

	var googleVerifier auth.IdentityVerifier
	if cfg.GoogleAuth.ClientID != "" {
		verifier, err := auth.NewGoogleVerifier(cfg.GoogleAuth.ClientID)
		if err != nil {
			logg.Error(ctx, "failed to create google verifier", err)
			os.Exit(1)
		}
		googleVerifier = verifier
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		GoogleVerifier: googleVerifier,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	phoneService, err := auth.NewPhoneService(redisClient, usersRepo, auth.NewLogSMSSender(logg), cfg.PhoneOTP)
	if err != nil {
		logg.Error(ctx, "failed to create phone verification service", err)
		os.Exit(1)
	}

	// Square is optional. Without it the package fee is waived and
	// listings publish as unpaid demo entries.
	var gateway billing.PaymentGateway
	if cfg.Square.AccessToken != "" {
		squareClient, err := square.NewClient(ctx, cfg.Square, logg)
		if err != nil {
			logg.Error(ctx, "failed to create square client", err)
			os.Exit(1)
		}
		gateway = squareClient
	}
	billingService, err := billing.NewService(billing.ServiceParams{
		Repo:    billing.NewRepository(dbClient.DB()),
		Gateway: gateway,
		Config:  cfg.Billing,
	})
	if err != nil {
		logg.Error(ctx, "failed to create billing service", err)
		os.Exit(1)
	}

	var geocoder listings.Geocoder
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(ctx, "failed to create maps client", err)
			os.Exit(1)
		}
		geocoder = mapsClient
	}

	var publisher listings.EventPublisher
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to create pubsub client", err)
			os.Exit(1)
		}
		defer pubsubClient.Close()

		eventsPublisher, err := events.NewPublisher(pubsubClient)
		if err != nil {
			logg.Error(ctx, "failed to create events publisher", err)
			os.Exit(1)
		}
		publisher = eventsPublisher
	} else {
		logg.Warn(ctx, "pubsub not configured, moderation and view events are dropped")
	}

	listingsService := listings.NewService(
		dbClient,
		listings.NewRepository(dbClient.DB()),
		billingService,
		usersService,
		geocoder,
		publisher,
		m,
		logg,
		cfg.Moderation,
	)

	var gcsClient *gcs.Client
	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(ctx, "failed to create gcs client", err)
			os.Exit(1)
		}
		defer gcsClient.Close()

		mediaService, err = media.NewService(media.NewRepository(dbClient.DB()), gcsClient, cfg.Media)
		if err != nil {
			logg.Error(ctx, "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "gcs not configured, media uploads are disabled")
	}

	var chatClient *openai.Client
	if cfg.OpenAI.APIKey != "" {
		chatClient, err = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			logg.Error(ctx, "failed to create openai client", err)
			os.Exit(1)
		}
	}
	var describeService *describe.Service
	if chatClient != nil {
		describeService = describe.NewService(chatClient)
	} else {
		describeService = describe.NewService(nil)
	}

	deps := routes.Deps{
		Config:  cfg,
		Logger:  logg,
		Metrics: m,

		DB:    dbClient,
		Redis: redisClient,

		SessionVerifier: sessionManager,
		AuthService:     authService,
		PhoneService:    phoneService,
		UsersService:    usersService,
		ListingsService: listingsService,
		MediaService:    mediaService,
		BillingService:  billingService,
		Notifications:   notifications.NewService(notifications.NewRepository(dbClient.DB())),
		Feedback:        feedback.NewService(feedback.NewRepository(dbClient.DB())),
		Describe:        describeService,

		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if gcsClient != nil {
		deps.GCS = gcsClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": string(dbClient.Backend()),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
