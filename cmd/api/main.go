package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brandforge/internal/credits"
	"brandforge/internal/http/handlers"
	httpapi "brandforge/internal/http/httpapi"
	"brandforge/internal/imagefetch"
	"brandforge/internal/infra"
	"brandforge/internal/infra/geoip"
	"brandforge/internal/providers/genai"
	"brandforge/internal/providers/plan"
	"brandforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, transactions will not carry country")
	}
	if geoResolver != nil {
		defer geoResolver.Close()
	}

	var store storage.ObjectStore
	if cfg.UseSupabaseStorage() {
		store = storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)
		logger.Info().Str("bucket", cfg.StorageBucket).Msg("using supabase storage")
	} else {
		store = storage.NewFilesystemStore(cfg.StoragePath, cfg.StorageBaseURL)
		logger.Info().Str("path", cfg.StoragePath).Msg("using filesystem storage")
	}

	genaiClient := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		Logger:     &logger,
	})
	if !genaiClient.Configured() {
		logger.Warn().Msg("gemini api key missing, planning will use local fallback and generation will fail")
	}

	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	app := &handlers.App{
		SQL:      sqlRunner,
		Config:   *cfg,
		Logger:   logger,
		Planner:  plan.NewGenerator(genaiClient, logger),
		Images:   genaiClient,
		Fetcher:  imagefetch.NewFetcher(&http.Client{Timeout: 30 * time.Second}, logger),
		Credits:  credits.NewLedger(sqlRunner, geoResolver, logger),
		Store:    store,
		Reporter: infra.NewLogReporter(logger),
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
