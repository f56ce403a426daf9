package app

import (
	"context"
	"sort"
	"strings"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

type SettingsService struct {
	repo     ports.SettingsRepository
	notifier ports.Notifier
}

func NewSettingsService(repo ports.SettingsRepository, notifier ports.Notifier) *SettingsService {
	return &SettingsService{repo: repo, notifier: notifier}
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Put(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	// Validation légère : seuil hors liste → défaut, opt-ins dédupliqués.
	if !domain.IsAllowedThreshold(settings.Notifications.NotifyMinutesBefore) {
		settings.Notifications.NotifyMinutesBefore = domain.DefaultSettings().Notifications.NotifyMinutesBefore
	}
	if settings.MaxConcurrentResolves <= 0 {
		settings.MaxConcurrentResolves = domain.DefaultSettings().MaxConcurrentResolves
	}
	settings.Notifications.OptedInTitles = dedupTitles(settings.Notifications.OptedInTitles)

	// Activer les notifications passe par la permission plateforme : un Put qui
	// tente d'allumer le flag sans permission accordée retombe à désactivé
	// (EnableNotifications est le chemin d'activation).
	if settings.Notifications.Enabled {
		current, err := s.repo.Get(ctx)
		if err != nil {
			return domain.Settings{}, err
		}
		if !current.Notifications.Enabled {
			granted, err := s.notifier.RequestPermission(ctx)
			if err != nil {
				return domain.Settings{}, err
			}
			if !granted {
				settings.Notifications.Enabled = false
			}
		}
	}
	return s.repo.Put(ctx, settings)
}

// EnableNotifications demande d'abord la permission plateforme. Refusée → le
// réglage reste désactivé et ErrPermissionDenied est renvoyé (dégradation
// silencieuse côté feature, message informatif côté appelant).
func (s *SettingsService) EnableNotifications(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if !granted {
		settings.Notifications.Enabled = false
		if _, putErr := s.repo.Put(ctx, settings); putErr != nil {
			return domain.Settings{}, putErr
		}
		return settings, ports.ErrPermissionDenied
	}

	settings.Notifications.Enabled = true
	return s.repo.Put(ctx, settings)
}

func dedupTitles(titles []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
