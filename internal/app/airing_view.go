package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

// AiringEngine est la racine d'orchestration : il possède le cache de liens,
// le registre de countdowns et le resolver, et pousse l'état vers le ViewSink
// au fur et à mesure qu'il se stabilise. Construit explicitement et passé par
// référence, pas d'état global.
type AiringEngine struct {
	logger     zerolog.Logger
	resolver   *LinkResolver
	countdowns *CountdownScheduler
	sink       ports.ViewSink

	mu      sync.Mutex
	current []domain.WatchedTitle

	// wg suit les résolutions en vol du render courant (tests/shutdown).
	wg sync.WaitGroup
}

func NewAiringEngine(logger zerolog.Logger, resolver *LinkResolver, countdowns *CountdownScheduler, sink ports.ViewSink) *AiringEngine {
	return &AiringEngine{
		logger:     logger,
		resolver:   resolver,
		countdowns: countdowns,
		sink:       sink,
	}
}

// RenderWatchList reconstruit la vue pour titles :
//
//  1. StopAll d'abord : toutes les annulations appliquées avant les nouveaux
//     Start (invariant au-plus-un-handle-par-clé entre deux passes).
//  2. Squelette immédiat, countdowns immédiats.
//  3. Batch + résolutions individuelles lancés concurremment (double
//     redondance voulue : latence et résilience). Les deux chemins écrivent
//     dans le cache idempotent ; après chaque arrivée l'UI est patchée par
//     re-lecture du cache, jamais depuis une closure périmée.
func (e *AiringEngine) RenderWatchList(ctx context.Context, titles []domain.WatchedTitle) {
	e.countdowns.StopAll()

	e.mu.Lock()
	e.current = append([]domain.WatchedTitle(nil), titles...)
	e.mu.Unlock()

	e.sink.RenderSkeleton(titles)

	for _, t := range titles {
		if !t.HasAiring() {
			continue
		}
		key := countdownKey(t)
		target := t.NextAiring.Timestamp
		e.countdowns.Start(key, target, func(c domain.Countdown) {
			e.sink.PatchCountdown(key, c)
		})
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if _, err := e.resolver.ResolveBatch(ctx, titles); err != nil {
			// Non bloquant : les résolutions individuelles restent en course.
			return
		}
		for _, t := range titles {
			e.patchFromCache(t.ExternalID)
		}
	}()

	e.resolver.ResolveEach(ctx, &e.wg, titles, e.patchFromCache)
}

// patchFromCache re-lit le record depuis le cache et patch la carte. L'arrivée
// tardive d'un chemin concurrent confirme (no-op visuel) ou raffine.
func (e *AiringEngine) patchFromCache(externalID int64) {
	if externalID == 0 {
		return
	}
	rec, ok := e.resolver.Cache().Get(externalID)
	if !ok {
		return
	}
	e.sink.PatchCard(externalID, rec)
}

// Snapshot renvoie la dernière liste rendue (sweep de notifications, API).
func (e *AiringEngine) Snapshot(ctx context.Context) []domain.WatchedTitle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.WatchedTitle(nil), e.current...)
}

// Countdowns expose le scheduler (lecture du nombre de handles, etc).
func (e *AiringEngine) Countdowns() *CountdownScheduler { return e.countdowns }

// Resolver expose le resolver (requêtes "has settled" et lecture du cache).
func (e *AiringEngine) Resolver() *LinkResolver { return e.resolver }

// WaitSettled bloque jusqu'à ce que toutes les résolutions lancées par le
// dernier render soient retombées (écrites en cache ou abandonnées).
func (e *AiringEngine) WaitSettled() {
	e.wg.Wait()
}

// Teardown annule tous les countdowns. Les résolutions en vol ne sont pas
// annulées : leur écriture tardive dans le cache est inoffensive, le cache
// n'est pas lié à une passe de rendu.
func (e *AiringEngine) Teardown() {
	e.countdowns.StopAll()
}

func countdownKey(t domain.WatchedTitle) string {
	return "countdown-" + t.ID
}
