package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	petsetuserver "github.com/petsetu/petsetu-web/go"

	arcgisclient "github.com/petsetu/petsetu-web/internal/clients/http/arcgis"
	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	advertarcgis "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/external/arcgis"
	advertbackend "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/external/backend"
	advertmemory "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/memory"
	advertobs "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/observability"
	advertpostgres "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/persistence/postgres"
	adverts3 "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/storage/s3"
	advertworkflows "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/workflows"
	advertapp "github.com/petsetu/petsetu-web/internal/domains/adverts/application"
	advertports "github.com/petsetu/petsetu-web/internal/domains/adverts/ports"
	leadbackend "github.com/petsetu/petsetu-web/internal/domains/leads/adapters/external/backend"
	leadobs "github.com/petsetu/petsetu-web/internal/domains/leads/adapters/observability"
	leadapp "github.com/petsetu/petsetu-web/internal/domains/leads/application"
	leadports "github.com/petsetu/petsetu-web/internal/domains/leads/ports"
	listingbackend "github.com/petsetu/petsetu-web/internal/domains/listings/adapters/external/backend"
	listingobs "github.com/petsetu/petsetu-web/internal/domains/listings/adapters/observability"
	listingapp "github.com/petsetu/petsetu-web/internal/domains/listings/application"
	listingports "github.com/petsetu/petsetu-web/internal/domains/listings/ports"
	userbackend "github.com/petsetu/petsetu-web/internal/domains/users/adapters/external/backend"
	usermemory "github.com/petsetu/petsetu-web/internal/domains/users/adapters/memory"
	userobs "github.com/petsetu/petsetu-web/internal/domains/users/adapters/observability"
	userpostgres "github.com/petsetu/petsetu-web/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/petsetu/petsetu-web/internal/domains/users/application"
	userports "github.com/petsetu/petsetu-web/internal/domains/users/ports"
	"github.com/petsetu/petsetu-web/internal/platform/health"
	"github.com/petsetu/petsetu-web/internal/platform/migrations"
	platformobservability "github.com/petsetu/petsetu-web/internal/platform/observability"
	platformpostgres "github.com/petsetu/petsetu-web/internal/platform/postgres"
)

const serviceName = "petsetu-web"

// Run boots the PetSetu web BFF with observability, stores, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectPostgres(ctx, cfg, logger)
	defer cleanupDB()

	backend := buildBackendClient(cfg, logger)

	userService := buildUserService(cfg, db, backend, instruments)
	advertService, cleanupAdverts := buildAdvertService(ctx, cfg, db, backend, instruments)
	defer cleanupAdverts()
	listingService := buildListingService(cfg, backend, instruments)
	leadService := buildLeadService(backend, instruments)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go sweepIdleDrafts(sweepCtx, advertService, cfg.DraftIdleTimeout, logger)

	handlers := petsetuserver.ApiHandleFunctions{
		AdvertAPI:  petsetuserver.NewAdvertAPI(advertService),
		SessionAPI: petsetuserver.NewSessionAPI(userService, cfg.SecureCookies()),
		ListingAPI: petsetuserver.NewListingAPI(listingService, cfg.ImageBaseURL),
		LeadAPI:    petsetuserver.NewLeadAPI(leadService),
		SiteAPI:    petsetuserver.NewSiteAPI(listingService),
		HealthAPI:  petsetuserver.NewHealthAPI(health.NewProber(cfg.APIBase)),
	}

	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := petsetuserver.NewRouterWithGinEngine(engine, handlers)
	addr := ":" + cfg.Port
	logger.Info("PetSetu web listening", slog.String("addr", addr), slog.Bool("backend_configured", cfg.BackendConfigured()))
	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("PetSetu web server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	logger.Info("PetSetu web stopped")
	return nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory session and submission stores")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return nil, func() {}
	}
	logger.Info("session and submission stores configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildBackendClient(cfg Config, logger *slog.Logger) *backendclient.Client {
	if !cfg.BackendConfigured() {
		logger.Warn("API_BASE not set, backend features report a configuration error")
		return nil
	}
	client, err := backendclient.NewClient(cfg.APIBase, &http.Client{Timeout: cfg.BackendTimeout})
	if err != nil {
		logger.Warn("invalid API_BASE, backend features report a configuration error", slog.String("error", err.Error()))
		return nil
	}
	return client
}

func buildUserService(cfg Config, db *gorm.DB, backend *backendclient.Client, instruments *platformobservability.Instruments) userports.Service {
	var sessions userports.SessionStore = usermemory.NewSessionStore()
	if db != nil {
		sessions = userpostgres.NewSessionStore(db, cfg.SessionTTL)
	}
	var auth userports.Authenticator
	if backend != nil {
		auth = userbackend.NewAuthenticator(backend)
	}
	core := userapp.NewService(auth, sessions, userapp.WithLogger(instruments.Logger))
	return userobs.New(
		core,
		userobs.WithLogger(instruments.Logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
}

func buildAdvertService(ctx context.Context, cfg Config, db *gorm.DB, backend *backendclient.Client, instruments *platformobservability.Instruments) (advertports.Service, func()) {
	logger := instruments.Logger
	deps := advertapp.Dependencies{
		Drafts:            advertmemory.NewDraftStore[*advertapp.Workspace](),
		Previews:          advertmemory.NewPreviewStore(),
		BackendConfigured: backend != nil,
	}
	if db != nil {
		deps.Submissions = advertpostgres.NewSubmissionStore(db)
	} else {
		deps.Submissions = advertmemory.NewSubmissionStore()
	}

	if cfg.ArcGISToken == "" {
		logger.Warn("ARCGIS_TOKEN not set, address suggestions disabled")
	} else if geoClient, err := arcgisclient.NewClient(cfg.ArcGISFindURL, cfg.ArcGISToken, nil); err != nil {
		logger.Warn("invalid ArcGIS configuration, address suggestions disabled", slog.String("error", err.Error()))
	} else {
		deps.Geocoder = advertarcgis.NewGeocoder(geoClient)
	}

	var creator advertports.PostCreator
	if backend != nil {
		creator = advertbackend.NewPostCreator(backend)
		deps.Breeds = advertbackend.NewBreedCatalog(backend)
		deps.Uploader = advertbackend.NewMediaUploader(backend)
	}
	if cfg.MediaUploadMode == MediaUploadS3 {
		uploader, err := adverts3.NewUploader(ctx, adverts3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			logger.Warn("S3 uploader unavailable, uploading through the backend", slog.String("error", err.Error()))
		} else {
			deps.Uploader = uploader
			logger.Info("media uploads go directly to S3", slog.String("bucket", cfg.S3Bucket))
		}
	}

	cleanup := func() {}
	var workflows advertports.WorkflowOrchestrator = advertworkflows.NewInlinePostWorkflows(creator)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, creating posts inline", slog.String("error", err.Error()))
	} else {
		cleanup = temporalClient.Close
		workflows = advertworkflows.NewTemporalPostWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	deps.Workflows = workflows

	core := advertapp.NewService(
		deps,
		advertapp.WithLogger(logger),
		advertapp.WithSuggesterOptions(advertapp.WithSuggestDelay(cfg.AddressDebounce)),
		advertapp.WithMediaOptions(advertapp.WithUploadConcurrency(cfg.UploadConcurrency), advertapp.WithUploadTimeout(cfg.BackendTimeout)),
		advertapp.WithSubmitter(advertapp.NewSubmitter(
			workflows,
			deps.Submissions,
			deps.BackendConfigured,
			advertapp.WithSubmitTimeout(cfg.BackendTimeout),
			advertapp.WithSubmitterLogger(logger),
		)),
	)
	service := advertobs.New(
		core,
		advertobs.WithLogger(logger),
		advertobs.WithTracer(instruments.Tracer("internal.adverts.application")),
		advertobs.WithMeter(instruments.Meter("internal.adverts.application")),
	)
	return service, cleanup
}

func buildListingService(cfg Config, backend *backendclient.Client, instruments *platformobservability.Instruments) listingports.Service {
	var catalog listingports.Catalog
	if backend != nil {
		catalog = listingbackend.NewCatalog(backend)
	}
	core := listingapp.NewService(catalog, listingapp.WithSiteURL(cfg.SiteURL), listingapp.WithLogger(instruments.Logger))
	return listingobs.New(
		core,
		listingobs.WithLogger(instruments.Logger),
		listingobs.WithTracer(instruments.Tracer("internal.listings.application")),
		listingobs.WithMeter(instruments.Meter("internal.listings.application")),
	)
}

func buildLeadService(backend *backendclient.Client, instruments *platformobservability.Instruments) leadports.Service {
	var gateway leadports.Gateway
	if backend != nil {
		gateway = leadbackend.NewGateway(backend)
	}
	core := leadapp.NewService(gateway, leadapp.WithLogger(instruments.Logger))
	return leadobs.New(
		core,
		leadobs.WithLogger(instruments.Logger),
		leadobs.WithTracer(instruments.Tracer("internal.leads.application")),
		leadobs.WithMeter(instruments.Meter("internal.leads.application")),
	)
}

// sweepIdleDrafts disposes drafts left untouched for longer than idle.
func sweepIdleDrafts(ctx context.Context, service advertports.Service, idle time.Duration, logger *slog.Logger) {
	interval := min(idle/4, 5*time.Minute)
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			swept, err := service.SweepIdle(ctx, now.Add(-idle))
			if err != nil {
				logger.Warn("idle draft sweep failed", slog.String("error", err.Error()))
				continue
			}
			if swept > 0 {
				logger.Info("idle drafts disposed", slog.Int("count", swept))
			}
		}
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
