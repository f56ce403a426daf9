// Package eventsink implémente le collaborateur UI en publiant chaque patch
// sur l'event bus. Le handler SSE de httpapi relaie ensuite vers le
// navigateur, qui peint les cartes.
package eventsink

import (
	"encoding/json"
	"sync"

	"github.com/rs/xid"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

const (
	TopicSkeleton      = "view.skeleton"
	TopicCardPatched   = "card.patched"
	TopicCountdownTick = "countdown.tick"
)

type Sink struct {
	bus ports.EventBus

	// renderID identifie la passe de rendu courante dans les events. Lu par
	// les goroutines de résolution, d'où le mutex.
	mu       sync.Mutex
	renderID string
}

func New(bus ports.EventBus) *Sink {
	return &Sink{bus: bus, renderID: xid.New().String()}
}

func (s *Sink) currentRenderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderID
}

func (s *Sink) RenderSkeleton(titles []domain.WatchedTitle) {
	s.mu.Lock()
	s.renderID = xid.New().String()
	id := s.renderID
	s.mu.Unlock()

	s.publish(TopicSkeleton, map[string]any{
		"renderId": id,
		"titles":   titles,
	})
}

func (s *Sink) PatchCard(externalID int64, record domain.LinkRecord) {
	s.publish(TopicCardPatched, map[string]any{
		"renderId":   s.currentRenderID(),
		"externalId": externalID,
		"record":     record,
	})
}

func (s *Sink) PatchCountdown(key string, countdown domain.Countdown) {
	s.publish(TopicCountdownTick, map[string]any{
		"renderId":  s.currentRenderID(),
		"key":       key,
		"countdown": countdown,
	})
}

func (s *Sink) publish(topic string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}
