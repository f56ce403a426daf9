package app

import (
	"sync"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

// StreamingLinkCache est l'unique état partagé entre les chemins de
// résolution concurrents (batch + individuels). Put est un write-through
// inconditionnel (last-write-wins) : les deux writers décrivent le même titre
// immuable, l'écrasement ne fait que raffiner, jamais corrompre.
type StreamingLinkCache struct {
	mu      sync.RWMutex
	records map[int64]domain.LinkRecord
}

func NewStreamingLinkCache() *StreamingLinkCache {
	return &StreamingLinkCache{records: make(map[int64]domain.LinkRecord)}
}

func (c *StreamingLinkCache) Get(externalID int64) (domain.LinkRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[externalID]
	return rec, ok
}

func (c *StreamingLinkCache) Put(rec domain.LinkRecord) {
	if rec.ExternalID == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[rec.ExternalID] = rec
}

// Settled : une entrée existe pour cette clé (résolue ou fallback confirmé).
func (c *StreamingLinkCache) Settled(externalID int64) bool {
	_, ok := c.Get(externalID)
	return ok
}

func (c *StreamingLinkCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
