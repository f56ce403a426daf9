package eventsink

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

const TopicNotificationFired = "notification.fired"

// Notifier implémente la capacité de notification plateforme au-dessus du
// bus : l'alerte part en event SSE et c'est le navigateur qui affiche la
// Notification native. La permission est déléguée au client ; côté serveur
// elle est accordée via Grant (appelé par l'API quand le client confirme).
type Notifier struct {
	bus ports.EventBus

	mu      sync.Mutex
	granted bool
}

func NewNotifier(bus ports.EventBus) *Notifier {
	return &Notifier{bus: bus}
}

// Grant enregistre la réponse du client à la demande de permission.
func (n *Notifier) Grant(granted bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.granted = granted
}

func (n *Notifier) RequestPermission(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.granted, nil
}

func (n *Notifier) Show(ctx context.Context, title, body, icon string) error {
	b, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
		"icon":  icon,
	})
	if err != nil {
		return err
	}
	n.bus.Publish(TopicNotificationFired, b)
	return nil
}
