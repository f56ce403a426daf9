package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

// airedWindow : après diffusion, fenêtre pendant laquelle "airing now" peut
// encore partir (un sweep de retard max).
const airedWindow = 60 * time.Second

// NotificationScheduler balaie toutes les 60 s les titres opt-in en cours de
// diffusion et délègue la livraison au Notifier. Cadence volontairement plus
// grossière que les countdowns 1 s : une alerte à quelques minutes près n'a
// pas besoin d'une précision à la seconde.
//
// Le DedupLedger garantit le at-most-once par (titre, épisode) dans la session.
type NotificationScheduler struct {
	logger   zerolog.Logger
	settings func(ctx context.Context) (domain.Settings, error)
	titles   func(ctx context.Context) []domain.WatchedTitle
	ledger   ports.DedupLedger
	notifier ports.Notifier

	TickInterval time.Duration
	Now          func() time.Time
}

func NewNotificationScheduler(
	logger zerolog.Logger,
	settingsGetter func(ctx context.Context) (domain.Settings, error),
	titlesGetter func(ctx context.Context) []domain.WatchedTitle,
	ledger ports.DedupLedger,
	notifier ports.Notifier,
) *NotificationScheduler {
	return &NotificationScheduler{
		logger:       logger,
		settings:     settingsGetter,
		titles:       titlesGetter,
		ledger:       ledger,
		notifier:     notifier,
		TickInterval: 60 * time.Second,
		Now:          time.Now,
	}
}

func (sch *NotificationScheduler) Run(ctx context.Context) {
	interval := sch.TickInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sch.logger.Info().Msg("notification scheduler stopped")
			return
		case <-ticker.C:
			sch.Sweep(ctx)
		}
	}
}

// Sweep évalue l'éligibilité de chaque titre opt-in en statut "watching" avec
// un prochain épisode connu. Exporté pour être pilotable par les tests (temps
// simulé via Now) et par un refresh manuel.
func (sch *NotificationScheduler) Sweep(ctx context.Context) {
	settings, err := sch.settings(ctx)
	if err != nil {
		sch.logger.Error().Err(err).Msg("notification sweep: settings unavailable")
		return
	}
	notif := settings.Notifications
	if !notif.Enabled {
		return
	}

	threshold := time.Duration(notif.NotifyMinutesBefore) * time.Minute
	now := sch.Now()

	for _, t := range sch.titles(ctx) {
		if t.Status != domain.StatusWatching || !t.HasAiring() {
			continue
		}
		if !notif.OptedIn(t.Title) {
			continue
		}

		timeUntil := t.NextAiring.AiringAt().Sub(now)
		key := fmt.Sprintf("%s_%d", t.Title, t.NextAiring.Episode)

		switch {
		case timeUntil > 0 && timeUntil <= threshold:
			if sch.ledger.Marked(key) {
				continue
			}
			minutes := int((timeUntil + time.Minute - 1) / time.Minute)
			body := fmt.Sprintf("Episode %d airs in %d minutes!", t.NextAiring.Episode, minutes)
			sch.fire(ctx, key, t, body)
		case timeUntil > -airedWindow && timeUntil <= 0:
			if sch.ledger.Marked(key) {
				continue
			}
			body := fmt.Sprintf("Episode %d is airing now!", t.NextAiring.Episode)
			sch.fire(ctx, key, t, body)
		}
	}
}

func (sch *NotificationScheduler) fire(ctx context.Context, key string, t domain.WatchedTitle, body string) {
	if err := sch.notifier.Show(ctx, t.Title, body, t.CoverImage); err != nil {
		// La clé n'est pas marquée : le prochain sweep retentera.
		sch.logger.Warn().Err(err).Str("title", t.Title).Msg("notification delivery failed")
		return
	}
	sch.ledger.Mark(key)
	sch.logger.Info().Str("title", t.Title).Str("dedup_key", key).Msg("notification fired")
}
