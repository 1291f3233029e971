package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"connectrpc.com/connect"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"github.com/kuxala/hackathon-project-sub000/internal/auth"
	"github.com/kuxala/hackathon-project-sub000/internal/config"
	"github.com/kuxala/hackathon-project-sub000/internal/jobs/inmemory"
	"github.com/kuxala/hackathon-project-sub000/internal/logger"
	"github.com/kuxala/hackathon-project-sub000/internal/service"
	"github.com/kuxala/hackathon-project-sub000/internal/store"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var clientOpts []option.ClientOption
	if cfg.Store.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.Store.CredentialsFile))
	}

	var storeImpl store.Store
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		firestoreClient, err := firestore.NewClient(ctx, cfg.Store.ProjectID, clientOpts...)
		if err != nil {
			return fmt.Errorf("failed to create Firestore client: %w", err)
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient)
		log.Info().Str("project", cfg.Store.ProjectID).Msg("using Firestore store")
	default:
		storeImpl = store.NewMemoryStore()
		log.Info().Msg("using in-memory store for local development")
	}

	engine := analytics.NewEngine(
		analytics.WithLogger(log.With().Str("component", "engine").Logger()),
		analytics.WithParallelDetectors(cfg.Analytics.ParallelDetectors),
	)

	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(inmemory.Config{
		Workers:    cfg.Queue.Workers,
		BufferSize: cfg.Queue.Buffer,
		MaxRetries: cfg.Queue.MaxRetries,
	}, jobStore, log.With().Str("component", "queue").Logger())

	opts := []service.Option{
		service.WithPublisher(queue),
		service.WithJobStore(jobStore),
		service.WithPredictionMonths(cfg.Analytics.PredictionMonths),
		service.WithLogger(log.With().Str("component", "refresh").Logger()),
	}
	if cfg.Archive.Bucket != "" {
		storageClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			return fmt.Errorf("failed to create Cloud Storage client: %w", err)
		}
		defer storageClient.Close()
		opts = append(opts, service.WithArchiver(store.NewGCSArchiver(storageClient, cfg.Archive.Bucket)))
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("archiving insight batches")
	}
	insightsService := service.NewInsightsService(storeImpl, engine, opts...)

	if err := queue.Start(ctx, insightsService.HandleJob); err != nil {
		return fmt.Errorf("failed to start refresh workers: %w", err)
	}

	// Debug impersonation runs first so LocalDevInterceptor keeps its claims.
	interceptors := []connect.Interceptor{
		service.LoggingInterceptor(log),
		auth.DebugAuthInterceptor(cfg.Auth.Mode == config.AuthModeLocal && cfg.Auth.DebugImpersonation),
	}
	if cfg.Auth.Mode == config.AuthModeFirebase {
		firebaseAuth, err := auth.NewFirebaseAuth(ctx, cfg.Store.ProjectID, cfg.Store.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase Auth: %w", err)
		}
		interceptors = append(interceptors, auth.AuthInterceptor(firebaseAuth))
	} else {
		log.Warn().Msg("using mock authentication for local development")
		interceptors = append(interceptors, auth.LocalDevInterceptor())
	}

	path, handler := service.NewInsightsServiceHandler(
		insightsService,
		connect.WithInterceptors(interceptors...),
	)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			"Content-Type",
			"User-Agent",
			"X-User-Agent",
			auth.ImpersonateHeader,
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("refresh workers did not drain")
	}
	log.Info().Msg("server stopped")
	return nil
}
