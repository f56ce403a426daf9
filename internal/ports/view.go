package ports

import "github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"

// ViewSink est le collaborateur UI : l'engine pousse l'état au fur et à mesure
// qu'il se stabilise, l'UI peint. Les implémentations doivent être rapides et
// non bloquantes (appelées depuis les goroutines de résolution et les ticks).
type ViewSink interface {
	RenderSkeleton(titles []domain.WatchedTitle)
	PatchCard(externalID int64, record domain.LinkRecord)
	PatchCountdown(key string, countdown domain.Countdown)
}

type EventBus interface {
	Publish(topic string, payload []byte)
	Subscribe() (ch <-chan Event, cancel func())
}

type Event struct {
	Topic   string
	Payload []byte
}
