package httpapi

import (
	"errors"
	"net/http"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/app"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/httpjson"
)

// handleCalendar exporte la vue courante en iCalendar téléchargeable.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	titles := s.engine.Snapshot(r.Context())

	ics, err := app.ExportCalendar(titles)
	if err != nil {
		if errors.Is(err, app.ErrNothingToExport) {
			httpjson.WriteError(w, http.StatusNotFound, "no titles with a known airing time")
			return
		}
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+app.CalendarFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ics)
}
