package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/petsetu/petsetu-web/internal/app/web"
	backendclient "github.com/petsetu/petsetu-web/internal/clients/http/backend"
	advertbackend "github.com/petsetu/petsetu-web/internal/domains/adverts/adapters/external/backend"
	platformobservability "github.com/petsetu/petsetu-web/internal/platform/observability"
	advertactivities "github.com/petsetu/petsetu-web/internal/platform/temporal/activities/adverts"
	advertworkflows "github.com/petsetu/petsetu-web/internal/platform/temporal/workflows/adverts"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := web.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	const serviceName = "petsetu-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, err := backendclient.NewClient(cfg.APIBase, &http.Client{Timeout: cfg.BackendTimeout})
	if err != nil {
		logger.Error("worker requires API_BASE", slog.String("error", err.Error()))
		os.Exit(1)
	}
	postActivities := advertactivities.NewActivities(advertbackend.NewPostCreator(backend))

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, advertworkflows.PostCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(advertworkflows.PostCreationWorkflow, workflow.RegisterOptions{Name: advertworkflows.PostCreationWorkflowName})
	w.RegisterActivityWithOptions(postActivities.CreatePost, activity.RegisterOptions{Name: advertactivities.CreatePostActivityName})

	logger.Info("worker listening", slog.String("taskQueue", advertworkflows.PostCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
