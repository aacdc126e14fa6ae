package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ilya-burinskiy/repairguides/internal/app/configs"
	"github.com/ilya-burinskiy/repairguides/internal/app/handlers"
	"github.com/ilya-burinskiy/repairguides/internal/app/logger"
	"github.com/ilya-burinskiy/repairguides/internal/app/middlewares"
	"github.com/ilya-burinskiy/repairguides/internal/app/services"
	"github.com/ilya-burinskiy/repairguides/internal/app/storage"
)

const (
	dumpInterval    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	connectTimeout  = 10 * time.Second
)

var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

func main() {
	config := configs.Parse()
	if err := logger.Initialize(config.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Log.Sync() }()
	showBuildInfo()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store := configureStorage(ctx, config)
	fetcher := services.NewGuideFetcher(http.DefaultClient, config.GuidesAPIURL)
	persister := services.NewGuidePersister(fetcher, store, config.GuideURLPrefix)
	ipChecker, err := services.NewIPChecker(config.TrustedSubnet)
	if err != nil {
		logger.Log.Info("invalid trusted subnet", zap.String("subnet", config.TrustedSubnet), zap.Error(err))
		panic(err)
	}

	server := &http.Server{
		Handler: configureRouter(store, ipChecker, fetcher, persister),
		Addr:    config.ServerAddress,
	}
	go onExit(ctx, server)

	startHTTPServer(config, server)

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = store.Close(closeCtx); err != nil {
		logger.Log.Info("failed to close storage", zap.Error(err))
	}
}

func startHTTPServer(config configs.Config, server *http.Server) {
	logger.Log.Info("starting HTTP server", zap.String("address", config.ServerAddress))

	var serveErr error
	if config.UseHTTPS() {
		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(config.TLSHost),
		}
		server.TLSConfig = manager.TLSConfig()
		serveErr = server.ListenAndServeTLS("", "")
	} else {
		serveErr = server.ListenAndServe()
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		panic(serveErr)
	}
}

func onExit(ctx context.Context, server *http.Server) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Info("failed to shutdown", zap.Error(err))
	}
}

func configureRouter(
	store storage.Storage,
	ipChecker services.IPChecker,
	fetcher services.GuideFetcher,
	persister services.GuidePersister) chi.Router {

	router := chi.NewRouter()
	handlers := handlers.NewHandlers(store)
	router.Use(
		middlewares.Metrics,
		middlewares.ResponseLogger,
		middlewares.RequestLogger,
		middlewares.GzipCompress,
		middleware.AllowContentEncoding("gzip"),
	)
	router.Get("/ping", handlers.Ping)
	router.Get("/repair/{device}", handlers.GetRepairGuides(fetcher))
	router.Post("/save/{device}", handlers.SaveRepairGuides(persister))
	router.Group(func(router chi.Router) {
		router.Use(middlewares.OnlyTrustedIP(ipChecker))
		router.Handle("/metrics", promhttp.Handler())
	})

	return router
}

func configureStorage(ctx context.Context, config configs.Config) storage.Storage {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch {
	case config.UseMongoStorage():
		store, err := storage.NewMongoStorage(connectCtx, config.MongoURI, config.MongoDatabase)
		if err != nil {
			panic(err)
		}
		logger.Log.Info("using mongo storage", zap.String("database", config.MongoDatabase))
		return store
	case config.UseDBStorage():
		store, err := storage.NewDBStorage(connectCtx, config.DatabaseDSN)
		if err != nil {
			panic(err)
		}
		logger.Log.Info("using database storage")
		return store
	case config.UseFileStorage():
		fs := storage.NewFileStorage(config.FileStoragePath)
		records, err := fs.Snapshot()
		if err != nil {
			panic(err)
		}
		store := storage.NewMapStorage(fs)
		store.Restore(records)
		go services.NewStorageDumper(store, dumpInterval).Run(ctx)
		logger.Log.Info("using file storage",
			zap.String("path", config.FileStoragePath),
			zap.Int("restored", len(records)),
		)
		return store
	default:
		logger.Log.Info("using inmemory storage")
		return storage.NewMapStorage(nil)
	}
}

func showBuildInfo() {
	logger.Log.Info("build info", zap.String("build version", buildVersion))
	logger.Log.Info("build info", zap.String("build date", buildDate))
	logger.Log.Info("build info", zap.String("build commit", buildCommit))
}
