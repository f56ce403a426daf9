package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/app"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/httpjson"
)

// airingEntry est la vue API d'un titre : le record de lien (si settled) et
// les deux formes temporelles.
type airingEntry struct {
	Title     domain.WatchedTitle `json:"title"`
	Absolute  string              `json:"absolute,omitempty"`
	Countdown *domain.Countdown   `json:"countdown,omitempty"`
	Links     *domain.LinkRecord  `json:"links,omitempty"`
	Settled   bool                `json:"settled"`
}

func (s *Server) handleAiring(w http.ResponseWriter, r *http.Request) {
	titles := s.engine.Snapshot(r.Context())
	now := time.Now()

	out := make([]airingEntry, 0, len(titles))
	for _, t := range titles {
		entry := airingEntry{Title: t}
		if t.HasAiring() {
			entry.Absolute = app.FormatAbsolute(t.NextAiring.Timestamp)
			c := app.FormatRelative(t.NextAiring.Timestamp, now)
			entry.Countdown = &c
		}
		if rec, ok := s.engine.Resolver().Cache().Get(t.ExternalID); ok {
			entry.Links = &rec
			entry.Settled = true
		}
		out = append(out, entry)
	}
	httpjson.Write(w, http.StatusOK, out)
}

// handleAiringRefresh re-synchronise la watch list AniList puis reconstruit
// la vue (StopAll + skeleton + countdowns + résolutions concurrentes).
func (s *Server) handleAiringRefresh(w http.ResponseWriter, r *http.Request) {
	titles, err := s.anilist.Watchlist(r.Context(), nil)
	if err != nil {
		if errors.Is(err, app.ErrAniListNotConfigured) {
			httpjson.WriteError(w, http.StatusBadRequest, "anilist not configured (set settings.anilistToken)")
			return
		}
		httpjson.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	// Le render détache ses résolutions : il faut un contexte qui survit à
	// la requête.
	s.engine.RenderWatchList(renderContext(), titles)
	httpjson.Write(w, http.StatusAccepted, map[string]any{
		"titles":   len(titles),
		"rendered": true,
	})
}

// renderContext : les résolutions lancées par un render ne sont pas liées à
// la requête qui les a déclenchées ; une écriture cache tardive est
// inoffensive.
func renderContext() context.Context { return context.Background() }

func (s *Server) handleStreaming(w http.ResponseWriter, r *http.Request) {
	externalID, err := strconv.ParseInt(chi.URLParam(r, "externalId"), 10, 64)
	if err != nil || externalID <= 0 {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid external id")
		return
	}

	title := r.URL.Query().Get("title")
	rec := s.engine.Resolver().Resolve(r.Context(), domain.WatchedTitle{
		Title:      title,
		ExternalID: externalID,
	})
	httpjson.Write(w, http.StatusOK, rec)
}
