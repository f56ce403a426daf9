package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/app"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

type Server struct {
	logger   zerolog.Logger
	engine   *app.AiringEngine
	anilist  *app.AniListService
	settings *app.SettingsService
	sweeper  *app.NotificationScheduler
	bus      ports.EventBus
	// notifier est l'adapter bus : la route enable relaie la réponse du
	// client à la demande de permission.
	grantPermission func(bool)
	// resolveLimiter est optionnel et permet d'appliquer le plafond de
	// résolutions concurrentes à chaud.
	resolveLimiter *app.DynamicLimiter
}

func NewServer(
	logger zerolog.Logger,
	engine *app.AiringEngine,
	anilist *app.AniListService,
	settings *app.SettingsService,
	sweeper *app.NotificationScheduler,
	bus ports.EventBus,
	grantPermission func(bool),
	resolveLimiter *app.DynamicLimiter,
) *Server {
	return &Server{
		logger:          logger,
		engine:          engine,
		anilist:         anilist,
		settings:        settings,
		sweeper:         sweeper,
		bus:             bus,
		grantPermission: grantPermission,
		resolveLimiter:  resolveLimiter,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/openapi.json", s.handleOpenAPI)
		r.Get("/events", s.handleEvents)

		r.Get("/airing", s.handleAiring)
		r.Post("/airing/refresh", s.handleAiringRefresh)
		r.Get("/streaming/{externalId}", s.handleStreaming)
		r.Get("/calendar.ics", s.handleCalendar)

		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsPut)
		r.Post("/settings/notifications/enable", s.handleNotificationsEnable)
		r.Post("/notifications/sweep", s.handleNotificationSweep)
	})

	return r
}
