package app

import (
	"fmt"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

// FormatAbsolute rend l'instant de diffusion en absolu (jour de semaine,
// date, heure locale). Ne peut pas échouer.
func FormatAbsolute(ts int64) string {
	t := domain.NormalizeTimestamp(ts).Local()
	return t.Format("Mon, Jan 2 at 3:04 PM")
}

// FormatRelative décompose le temps restant jusqu'à ts, vu depuis now.
//
// Politique d'affichage (contrat UX, au plus deux unités, la plus grande
// d'abord) :
//   - 0 restant        → "Airing now!" (urgent, terminé)
//   - jours > 0        → "{d}d {h}h" (heures omises si 0), pas urgent
//   - heures > 0       → "{h}h {m}m", pas urgent
//   - minutes > 0      → "{m}m {s}s", urgent ssi minutes < 5
//   - sinon            → "{s}s", toujours urgent
func FormatRelative(ts int64, now time.Time) domain.Countdown {
	target := domain.NormalizeTimestamp(ts)
	remaining := target.Sub(now)
	if remaining <= 0 {
		return domain.Countdown{Text: "Airing now!", Urgent: true, Finished: true}
	}

	total := int64(remaining / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	c := domain.Countdown{SecondsRemaining: total}
	switch {
	case days > 0:
		if hours > 0 {
			c.Text = fmt.Sprintf("%dd %dh", days, hours)
		} else {
			c.Text = fmt.Sprintf("%dd", days)
		}
	case hours > 0:
		c.Text = fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		c.Text = fmt.Sprintf("%dm %ds", minutes, seconds)
		c.Urgent = minutes < 5
	default:
		c.Text = fmt.Sprintf("%ds", seconds)
		c.Urgent = true
	}
	return c
}
