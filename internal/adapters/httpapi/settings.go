package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/httpjson"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, settings)
}

func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := s.settings.Put(r.Context(), settings)
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.resolveLimiter != nil && updated.MaxConcurrentResolves > 0 {
		s.resolveLimiter.SetLimit(updated.MaxConcurrentResolves)
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// handleNotificationSweep force un passage du sweep (debug/outillage) sans
// attendre le prochain tick 60s.
func (s *Server) handleNotificationSweep(w http.ResponseWriter, r *http.Request) {
	if s.sweeper == nil {
		httpjson.WriteError(w, http.StatusNotImplemented, "notifications disabled")
		return
	}
	s.sweeper.Sweep(r.Context())
	httpjson.Write(w, http.StatusAccepted, map[string]string{"status": "swept"})
}

type enableNotificationsRequest struct {
	// PermissionGranted est la réponse du client à la demande de permission
	// plateforme (Notification.requestPermission côté navigateur).
	PermissionGranted bool `json:"permissionGranted"`
}

// handleNotificationsEnable : la permission refusée laisse le réglage
// désactivé et informe l'appelant : la feature dégrade, elle n'erre pas.
func (s *Server) handleNotificationsEnable(w http.ResponseWriter, r *http.Request) {
	var req enableNotificationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if s.grantPermission != nil {
		s.grantPermission(req.PermissionGranted)
	}

	updated, err := s.settings.EnableNotifications(r.Context())
	if err != nil {
		if errors.Is(err, ports.ErrPermissionDenied) {
			httpjson.Write(w, http.StatusForbidden, map[string]any{
				"error":    "notification permission denied",
				"settings": updated,
			})
			return
		}
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}
