package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/app"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

func newStreamingStub(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// Batch indisponible : le chemin individuel doit suffire.
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var id int64
		if _, err := fmt.Sscanf(r.URL.Path, "/streaming/%d", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"externalId":%d,"title":%q,"free":{"HiAnime":"https://hianime.to/watch/%d"},"official":[]}`, id, r.URL.Query().Get("title"), id)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestAiringHandler_ReflectsRenderedList(t *testing.T) {
	f := newServerFixture(t, newStreamingStub(t).URL)

	titles := []domain.WatchedTitle{
		{
			ID: "anilist-1", Title: "Show A", ExternalID: 10,
			Status:     domain.StatusWatching,
			NextAiring: &domain.NextAiring{Timestamp: time.Now().Add(time.Hour).Unix(), Episode: 3},
		},
	}
	f.engine.RenderWatchList(context.Background(), titles)
	f.engine.WaitSettled()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/airing", nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d (%s)", http.StatusOK, rr.Code, rr.Body)
	}

	var out []struct {
		Title     domain.WatchedTitle `json:"title"`
		Absolute  string              `json:"absolute"`
		Countdown *domain.Countdown   `json:"countdown"`
		Links     *domain.LinkRecord  `json:"links"`
		Settled   bool                `json:"settled"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("entries: want 1, got %d", len(out))
	}
	entry := out[0]
	if entry.Absolute == "" || entry.Countdown == nil {
		t.Fatalf("airing title must carry both time forms: %+v", entry)
	}
	if !entry.Settled || entry.Links == nil || !entry.Links.Resolved() {
		t.Fatalf("links must have settled resolved: %+v", entry.Links)
	}
}

func TestStreamingHandler_ResolvesOnDemand(t *testing.T) {
	f := newServerFixture(t, newStreamingStub(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaming/10?title=Some+Show", nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d (%s)", http.StatusOK, rr.Code, rr.Body)
	}

	var rec domain.LinkRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rec.Resolved() || rec.FreeLinks["HiAnime"] == "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestStreamingHandler_RejectsBadID(t *testing.T) {
	f := newServerFixture(t, newStreamingStub(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaming/abc", nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: want %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestCalendarHandler_NothingToExportIs404(t *testing.T) {
	f := newServerFixture(t, newStreamingStub(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar.ics", nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: want %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestCalendarHandler_ExportsRenderedTitles(t *testing.T) {
	f := newServerFixture(t, newStreamingStub(t).URL)

	airing := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	f.engine.RenderWatchList(context.Background(), []domain.WatchedTitle{
		{
			ID: "anilist-1", Title: "Show A", ExternalID: 10,
			Status:     domain.StatusWatching,
			NextAiring: &domain.NextAiring{Timestamp: airing.Unix(), Episode: 3},
		},
	})
	f.engine.WaitSettled()
	f.engine.Teardown()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar.ics", nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d (%s)", http.StatusOK, rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("content type: %q", ct)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), app.CalendarFilename) {
		t.Fatalf("content disposition: %q", rr.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(rr.Body.String(), "UID:show-a-ep-3@anime-airing-tracker") {
		t.Fatalf("ics body:\n%s", rr.Body)
	}
}
