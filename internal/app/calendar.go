package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

// CalendarFilename est le nom de l'artefact téléchargé par l'UI.
const CalendarFilename = "anime-airing-schedule.ics"

const (
	calendarEventDuration = 30 * time.Minute
	icsTimeLayout         = "20060102T150405Z"
)

// ExportCalendar produit un iCalendar : un VEVENT de 30 minutes par titre
// suivi ayant un instant de diffusion connu, avec un VALARM fixe à −5 min.
// Les titres sans instant résoluble sont sautés, pas en erreur. L'UID est
// dérivé de slug(titre)+épisode : ré-exporter est idempotent.
//
// Renvoie ErrNothingToExport plutôt qu'un calendrier vide-mais-valide.
func ExportCalendar(titles []domain.WatchedTitle) ([]byte, error) {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Anime Airing Tracker//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	events := 0
	for _, t := range titles {
		if !t.HasAiring() {
			continue
		}
		start := t.NextAiring.AiringAt()
		end := start.Add(calendarEventDuration)
		episode := t.NextAiring.Episode

		slug := SlugifyTitle(t.Title)
		if slug == "" {
			slug = "unknown"
		}
		uid := fmt.Sprintf("%s-ep-%d@anime-airing-tracker", slug, episode)
		summary := fmt.Sprintf("%s - Episode %d", escapeICSText(t.Title), episode)

		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString("UID:" + uid + "\r\n")
		// DTSTAMP dérivé de l'instant de diffusion : export stable d'un run
		// à l'autre.
		b.WriteString("DTSTAMP:" + start.Format(icsTimeLayout) + "\r\n")
		b.WriteString("DTSTART:" + start.Format(icsTimeLayout) + "\r\n")
		b.WriteString("DTEND:" + end.Format(icsTimeLayout) + "\r\n")
		b.WriteString("SUMMARY:" + summary + "\r\n")
		b.WriteString("DESCRIPTION:New episode airing\r\n")
		b.WriteString("BEGIN:VALARM\r\n")
		b.WriteString("ACTION:DISPLAY\r\n")
		b.WriteString("DESCRIPTION:" + summary + "\r\n")
		b.WriteString("TRIGGER:-PT5M\r\n")
		b.WriteString("END:VALARM\r\n")
		b.WriteString("END:VEVENT\r\n")
		events++
	}

	if events == 0 {
		return nil, ErrNothingToExport
	}

	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String()), nil
}

// escapeICSText échappe les caractères réservés du format (RFC 5545 §3.3.11).
func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
