package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/adapters/eventsink"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/adapters/httpapi"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/adapters/sessionstore"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/app"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/buildinfo"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/config"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite (ex: aat.db)")
	streamingURL := flag.String("streaming-api", def.StreamingAPIURL, "Base URL de l'API de résolution streaming")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "aat-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("db", *dbPath).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	bus := memorybus.New()
	defer bus.Close()

	notifier := eventsink.NewNotifier(bus)
	settingsRepo := sqlite.NewSettingsRepository(db.SQL)
	settingsSvc := app.NewSettingsService(settingsRepo, notifier)
	anilistSvc := app.NewAniListService(settingsSvc.Get)
	if def.AniListURL != "" {
		anilistSvc = anilistSvc.WithEndpoint(def.AniListURL)
	}

	// Limiteur partagé des résolutions individuelles.
	resolveLimiter := app.NewDynamicLimiter(domain.DefaultSettings().MaxConcurrentResolves)
	if s, err := settingsSvc.Get(ctx); err == nil && s.MaxConcurrentResolves > 0 {
		resolveLimiter.SetLimit(s.MaxConcurrentResolves)
	}

	cache := app.NewStreamingLinkCache()
	streamingClient := app.NewStreamingLinkClient(*streamingURL)
	resolver := app.NewLinkResolver(logger.With().Str("component", "resolver").Logger(), streamingClient, cache, resolveLimiter)

	countdowns := app.NewCountdownScheduler()
	sink := eventsink.New(bus)
	engine := app.NewAiringEngine(logger.With().Str("component", "engine").Logger(), resolver, countdowns, sink)
	defer engine.Teardown()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Premier render au démarrage, best-effort (token AniList optionnel).
	if titles, err := anilistSvc.Watchlist(ctx, nil); err != nil {
		logger.Warn().Err(err).Msg("initial watchlist sync skipped")
	} else {
		engine.RenderWatchList(context.Background(), titles)
		logger.Info().Int("titles", len(titles)).Msg("watch list rendered")
	}

	// Sweep de notifications : singleton 60s, indépendant des countdowns 1s.
	ledger := sessionstore.NewLedger()
	sweeper := app.NewNotificationScheduler(
		logger.With().Str("component", "notifications").Logger(),
		settingsSvc.Get,
		func(ctx context.Context) []domain.WatchedTitle { return engine.Snapshot(ctx) },
		ledger,
		notifier,
	)
	go sweeper.Run(shutdownCtx)

	srv := httpapi.NewServer(logger, engine, anilistSvc, settingsSvc, sweeper, bus, notifier.Grant, resolveLimiter)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	shutdownTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownTimeout)
	engine.WaitSettled()
	logger.Info().Msg("bye")
}
