package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

func TestExportCalendar_NothingToExport(t *testing.T) {
	titles := []domain.WatchedTitle{
		{Title: "No Airing", Status: domain.StatusWatching},
	}
	if _, err := ExportCalendar(nil); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("empty list: want ErrNothingToExport, got %v", err)
	}
	if _, err := ExportCalendar(titles); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("titles without airing: want ErrNothingToExport, got %v", err)
	}
}

func TestExportCalendar_EventFields(t *testing.T) {
	airing := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	titles := []domain.WatchedTitle{
		{
			Title:      "Some Show",
			Status:     domain.StatusWatching,
			NextAiring: &domain.NextAiring{Timestamp: airing.Unix(), Episode: 5},
		},
		{Title: "Finished Show", Status: domain.StatusCompleted},
	}

	out, err := ExportCalendar(titles)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	ics := string(out)

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"END:VCALENDAR\r\n",
		"UID:some-show-ep-5@anime-airing-tracker\r\n",
		"DTSTART:20260301T183000Z\r\n",
		"DTEND:20260301T190000Z\r\n",
		"SUMMARY:Some Show - Episode 5\r\n",
		"TRIGGER:-PT5M\r\n",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("missing line %q in:\n%s", want, ics)
		}
	}

	// Le titre sans diffusion est sauté, pas exporté.
	if strings.Contains(ics, "Finished Show") {
		t.Errorf("title without airing must be skipped")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("events: want 1, got %d", got)
	}
}

func TestExportCalendar_EscapesReservedCharacters(t *testing.T) {
	airing := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	titles := []domain.WatchedTitle{
		{
			Title:      "Show; With, Reserved",
			NextAiring: &domain.NextAiring{Timestamp: airing.Unix(), Episode: 1},
		},
	}

	out, err := ExportCalendar(titles)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(out), `SUMMARY:Show\; With\, Reserved - Episode 1`) {
		t.Fatalf("reserved characters not escaped:\n%s", out)
	}
}

func TestExportCalendar_IsDeterministic(t *testing.T) {
	airing := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	titles := []domain.WatchedTitle{
		{Title: "Show A", NextAiring: &domain.NextAiring{Timestamp: airing.Unix(), Episode: 3}},
		{Title: "Show B", NextAiring: &domain.NextAiring{Timestamp: airing.Add(time.Hour).UnixMilli(), Episode: 7}},
	}

	first, err := ExportCalendar(titles)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	second, err := ExportCalendar(titles)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("two exports of the same list must be byte-identical")
	}
}
