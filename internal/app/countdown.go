package app

import (
	"sync"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

// CountdownScheduler possède les timers de compte à rebours, un par titre
// visible, indépendamment annulables. Invariant : au plus un handle vivant
// par clé. Un handle s'auto-arrête quand le compte atteint zéro, l'UI reste
// figée sur "Airing now!".
type CountdownScheduler struct {
	mu      sync.Mutex
	handles map[string]*countdownHandle

	// TickInterval est à 1s en production ; raccourci par les tests.
	TickInterval time.Duration
	// Now est injectable pour simuler l'écoulement du temps.
	Now func() time.Time
}

type countdownHandle struct {
	key    string
	target int64
	onTick func(domain.Countdown)
	stop   chan struct{}
	once   sync.Once

	// mu sérialise callback et annulation : après cancel(), le callback ne
	// sera plus jamais invoqué, même par un tick déjà en vol.
	mu   sync.Mutex
	dead bool
}

func (h *countdownHandle) cancel() {
	h.once.Do(func() { close(h.stop) })
	h.mu.Lock()
	h.dead = true
	h.mu.Unlock()
}

func NewCountdownScheduler() *CountdownScheduler {
	return &CountdownScheduler{
		handles:      make(map[string]*countdownHandle),
		TickInterval: time.Second,
		Now:          time.Now,
	}
}

// Start crée le timer répétant pour key. Si un handle existe déjà pour cette
// clé, il est annulé d'abord : son callback ne sera plus jamais invoqué.
// Un premier tick synchrone est émis immédiatement (affichage sans délai).
func (s *CountdownScheduler) Start(key string, targetTimestamp int64, onTick func(domain.Countdown)) {
	h := &countdownHandle{
		key:    key,
		target: targetTimestamp,
		onTick: onTick,
		stop:   make(chan struct{}),
	}

	s.mu.Lock()
	if old, ok := s.handles[key]; ok {
		old.cancel()
	}
	s.handles[key] = h
	s.mu.Unlock()

	if s.tick(h) {
		return
	}

	go s.run(h)
}

func (s *CountdownScheduler) run(h *countdownHandle) {
	ticker := time.NewTicker(s.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			if s.tick(h) {
				return
			}
		}
	}
}

// tick recalcule le restant et invoque le callback, sous vérification que le
// handle est toujours le handle courant pour sa clé (un Start concurrent a pu
// le remplacer entre deux ticks). Renvoie true à l'état terminal.
func (s *CountdownScheduler) tick(h *countdownHandle) bool {
	c := FormatRelative(h.target, s.Now())

	s.mu.Lock()
	current := s.handles[h.key] == h
	if current && c.Finished {
		delete(s.handles, h.key)
	}
	s.mu.Unlock()

	if !current {
		return true
	}

	h.mu.Lock()
	if !h.dead && h.onTick != nil {
		h.onTick(c)
	}
	h.mu.Unlock()

	if c.Finished {
		h.cancel()
		return true
	}
	return false
}

// Stop annule le handle de key, s'il existe.
func (s *CountdownScheduler) Stop(key string) {
	s.mu.Lock()
	h, ok := s.handles[key]
	if ok {
		delete(s.handles, key)
	}
	s.mu.Unlock()
	if ok {
		h.cancel()
	}
}

// StopAll annule tous les handles vivants et vide le registre. À appeler
// avant chaque re-render de la watch list : un StopAll manqué est un bug
// (ticks en double, fuite de timers).
func (s *CountdownScheduler) StopAll() {
	s.mu.Lock()
	toStop := make([]*countdownHandle, 0, len(s.handles))
	for _, h := range s.handles {
		toStop = append(toStop, h)
	}
	s.handles = make(map[string]*countdownHandle)
	s.mu.Unlock()

	for _, h := range toStop {
		h.cancel()
	}
}

// Live renvoie le nombre de handles vivants (observé par les tests).
func (s *CountdownScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}
