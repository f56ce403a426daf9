package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

func TestAniListService_Viewer_RequiresToken(t *testing.T) {
	svc := NewAniListService(func(ctx context.Context) (domain.Settings, error) {
		return domain.Settings{}, nil
	})
	_, err := svc.Viewer(context.Background())
	if err != ErrAniListNotConfigured {
		t.Fatalf("expected ErrAniListNotConfigured, got %v", err)
	}
}

func TestAniListService_Viewer_SendsBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Viewer":{"id":123,"name":"Guilhem"}}}`))
	}))
	defer ts.Close()

	svc := NewAniListService(func(ctx context.Context) (domain.Settings, error) {
		return domain.Settings{AniListToken: "tok"}, nil
	}).WithEndpoint(ts.URL)

	viewer, err := svc.Viewer(context.Background())
	if err != nil {
		t.Fatalf("viewer: %v", err)
	}
	if viewer.ID != 123 || viewer.Name != "Guilhem" {
		t.Fatalf("unexpected viewer: %+v", viewer)
	}
	if !strings.HasPrefix(gotAuth, "Bearer ") {
		t.Fatalf("expected Bearer auth, got %q", gotAuth)
	}
}

func TestAniListService_Watchlist_MapsEntriesToWatchedTitles(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			_, _ = w.Write([]byte(`{"data":{"Viewer":{"id":42,"name":"me"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"MediaListCollection":{"lists":[{"entries":[
			{"status":"CURRENT","progress":3,"media":{"id":123,"title":{"romaji":"Ore dake Level Up na Ken","english":"Solo Leveling"},"episodes":12,"coverImage":{"large":"https://img/123.jpg"},"nextAiringEpisode":{"airingAt":1767225600,"episode":4}}},
			{"status":"PAUSED","progress":8,"media":{"id":456,"title":{"romaji":"Haikyuu!!","english":""},"episodes":25,"coverImage":{"large":""},"nextAiringEpisode":null}}
		]}]}}}`))
	}))
	defer ts.Close()

	svc := NewAniListService(func(ctx context.Context) (domain.Settings, error) {
		return domain.Settings{AniListToken: "tok"}, nil
	}).WithEndpoint(ts.URL)

	titles, err := svc.Watchlist(context.Background(), nil)
	if err != nil {
		t.Fatalf("watchlist: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(titles))
	}

	first := titles[0]
	if first.ID != "anilist-123" || first.ExternalID != 123 {
		t.Fatalf("unexpected ids: %+v", first)
	}
	// Titre anglais préféré au romaji quand il existe.
	if first.Title != "Solo Leveling" {
		t.Fatalf("title: got %q", first.Title)
	}
	if first.Status != domain.StatusWatching || first.EpisodesWatched != 3 {
		t.Fatalf("status/progress: %+v", first)
	}
	if !first.HasAiring() || first.NextAiring.Episode != 4 {
		t.Fatalf("next airing: %+v", first.NextAiring)
	}

	second := titles[1]
	if second.Title != "Haikyuu!!" {
		t.Fatalf("romaji fallback: got %q", second.Title)
	}
	if second.Status != domain.StatusPaused || second.HasAiring() {
		t.Fatalf("paused entry: %+v", second)
	}
}

func TestAniListService_Watchlist_SurfacesGraphQLErrors(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			_, _ = w.Write([]byte(`{"data":{"Viewer":{"id":42,"name":"me"}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{},"errors":[{"message":"Invalid token"}]}`))
	}))
	defer ts.Close()

	svc := NewAniListService(func(ctx context.Context) (domain.Settings, error) {
		return domain.Settings{AniListToken: "tok"}, nil
	}).WithEndpoint(ts.URL)

	if _, err := svc.Watchlist(context.Background(), nil); err == nil || err.Error() != "Invalid token" {
		t.Fatalf("expected GraphQL error surfaced, got %v", err)
	}
}
