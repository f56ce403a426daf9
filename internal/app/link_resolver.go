package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

// noExternalIDLabel : état d'entrée reconnu, pas un échec réseau. Le fallback
// est immédiat et sans appel.
const noExternalIDLabel = "No external ID available"

// LinkResolver orchestre les trois chemins de résolution : fetch individuel,
// fetch batch et génération fallback. Tous écrivent dans le même cache
// idempotent ; aucun ordre n'est requis entre batch et individuels.
type LinkResolver struct {
	logger  zerolog.Logger
	client  *StreamingLinkClient
	cache   *StreamingLinkCache
	limiter *DynamicLimiter
}

func NewLinkResolver(logger zerolog.Logger, client *StreamingLinkClient, cache *StreamingLinkCache, limiter *DynamicLimiter) *LinkResolver {
	if limiter == nil {
		limiter = NewDynamicLimiter(4)
	}
	return &LinkResolver{logger: logger, client: client, cache: cache, limiter: limiter}
}

func (r *LinkResolver) Cache() *StreamingLinkCache { return r.cache }

// Settled : la résolution de ce titre a abouti (résolue ou fallback confirmé).
func (r *LinkResolver) Settled(externalID int64) bool {
	return r.cache.Settled(externalID)
}

// Resolve résout un seul titre.
//
//  1. Pas d'ExternalID → record fallback synchrone, aucun appel réseau.
//  2. Cache hit → retour immédiat. Le cache est consulté à chaque appel, y
//     compris pendant qu'un fetch est déjà en vol pour la même clé : les
//     doublons en vol sont tolérés, pas dédupliqués (opération idempotente).
//  3. Sinon fetch distant ; tout échec (non-2xx, réseau, corps malformé)
//     dégrade en record fallback qui occupe quand même le slot du cache, pour
//     ne pas re-fetcher un titre connu mauvais dans la même session.
func (r *LinkResolver) Resolve(ctx context.Context, title domain.WatchedTitle) domain.LinkRecord {
	if title.ExternalID == 0 {
		return FallbackRecord(0, title.Title, noExternalIDLabel)
	}

	if rec, ok := r.cache.Get(title.ExternalID); ok {
		return rec
	}

	payload, err := r.client.FetchOne(ctx, title.ExternalID, title.Title)
	if err != nil {
		r.logger.Warn().Err(err).Int64("external_id", title.ExternalID).Str("title", title.Title).Msg("individual resolution failed, using fallback")
		rec := FallbackRecord(title.ExternalID, title.Title, errorLabel(err))
		r.cache.Put(rec)
		return rec
	}

	rec := payloadToRecord(payload, title.ExternalID, title.Title)
	r.cache.Put(rec)
	return rec
}

// ResolveBatch résout la liste entière en un appel. Renvoie le nombre
// d'entrées écrites dans le cache. Une entrée malformée est écartée avec un
// warning, elle n'invalide pas le reste du batch.
func (r *LinkResolver) ResolveBatch(ctx context.Context, titles []domain.WatchedTitle) (int, error) {
	entries := make([]BatchTitle, 0, len(titles))
	for _, t := range titles {
		if t.ExternalID == 0 {
			continue
		}
		entries = append(entries, BatchTitle{ExternalID: t.ExternalID, Title: t.Title})
	}
	if len(entries) == 0 {
		return 0, nil
	}

	results, err := r.client.FetchBatch(ctx, entries)
	if err != nil {
		r.logger.Warn().Err(err).Int("titles", len(entries)).Msg("batch resolution failed")
		return 0, err
	}

	written := 0
	for _, res := range results {
		if res.ExternalID == nil || *res.ExternalID == 0 {
			r.logger.Warn().Str("title", res.Title).Msg("batch entry without external id, skipped")
			continue
		}
		r.cache.Put(payloadToRecord(res, *res.ExternalID, res.Title))
		written++
	}
	return written, nil
}

// ResolveEach lance une résolution individuelle par titre, chacune dans sa
// goroutine, plafonnées par le limiter. onSettle est invoqué après chaque
// écriture cache (re-lecture par l'appelant, pas de closure sur l'état).
func (r *LinkResolver) ResolveEach(ctx context.Context, wg *sync.WaitGroup, titles []domain.WatchedTitle, onSettle func(externalID int64)) {
	for _, t := range titles {
		if t.ExternalID == 0 {
			continue
		}
		title := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.limiter.Acquire(ctx); err != nil {
				return
			}
			defer r.limiter.Release()

			r.Resolve(ctx, title)
			if onSettle != nil {
				onSettle(title.ExternalID)
			}
		}()
	}
}

func payloadToRecord(p StreamingResult, externalID int64, title string) domain.LinkRecord {
	if p.Title != "" {
		title = p.Title
	}
	free := p.Free
	if free == nil {
		free = map[string]string{}
	}
	official := make([]domain.OfficialLink, 0, len(p.Official))
	for _, o := range p.Official {
		official = append(official, domain.OfficialLink{Name: o.Name, URL: o.URL})
	}
	return domain.LinkRecord{
		ExternalID:    externalID,
		Title:         title,
		FreeLinks:     free,
		OfficialLinks: official,
		Error:         p.Error,
	}
}
