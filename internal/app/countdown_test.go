package app

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

func newTestCountdowns(now time.Time) *CountdownScheduler {
	s := NewCountdownScheduler()
	s.TickInterval = 5 * time.Millisecond
	s.Now = func() time.Time { return now }
	return s
}

func TestCountdown_ImmediateFirstTick(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestCountdowns(now)
	defer s.StopAll()

	got := make(chan domain.Countdown, 1)
	s.Start("countdown-a", now.Add(90*time.Second).Unix(), func(c domain.Countdown) {
		select {
		case got <- c:
		default:
		}
	})

	// Le premier tick est synchrone : déjà dans le channel.
	select {
	case c := <-got:
		if c.Text != "1m 30s" || !c.Urgent {
			t.Fatalf("first tick: %+v", c)
		}
	default:
		t.Fatalf("expected a synchronous first tick")
	}
}

func TestCountdown_AtMostOneHandlePerKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestCountdowns(now)
	defer s.StopAll()

	var firstTicks, secondTicks atomic.Int64
	target := now.Add(time.Hour).Unix()

	s.Start("countdown-a", target, func(domain.Countdown) { firstTicks.Add(1) })
	s.Start("countdown-a", target, func(domain.Countdown) { secondTicks.Add(1) })
	// Une fois le second Start rendu, l'ancien handle est annulé : plus aucun
	// tick ne doit lui parvenir.
	before := firstTicks.Load()

	time.Sleep(50 * time.Millisecond)

	if s.Live() != 1 {
		t.Fatalf("live handles: want 1, got %d", s.Live())
	}
	if got := firstTicks.Load(); got != before {
		t.Fatalf("old callback fired %d extra times after restart", got-before)
	}
	if secondTicks.Load() == 0 {
		t.Fatalf("new callback never fired")
	}
}

func TestCountdown_StopSilencesCallback(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestCountdowns(now)

	var ticks atomic.Int64
	s.Start("countdown-a", now.Add(time.Hour).Unix(), func(domain.Countdown) { ticks.Add(1) })
	s.Stop("countdown-a")
	after := ticks.Load()

	time.Sleep(30 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Fatalf("callback fired %d times after Stop", got-after)
	}
	if s.Live() != 0 {
		t.Fatalf("live handles after Stop: %d", s.Live())
	}
}

func TestCountdown_StopAll(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestCountdowns(now)

	for _, key := range []string{"countdown-a", "countdown-b", "countdown-c"} {
		s.Start(key, now.Add(time.Hour).Unix(), func(domain.Countdown) {})
	}
	if s.Live() != 3 {
		t.Fatalf("live handles: want 3, got %d", s.Live())
	}

	s.StopAll()
	if s.Live() != 0 {
		t.Fatalf("live handles after StopAll: %d", s.Live())
	}
}

func TestCountdown_FinishedHandleRemovesItself(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestCountdowns(now)

	var last domain.Countdown
	var mu sync.Mutex
	// Cible déjà passée : le premier tick synchrone est terminal.
	s.Start("countdown-a", now.Add(-time.Second).Unix(), func(c domain.Countdown) {
		mu.Lock()
		last = c
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()
	if last.Text != "Airing now!" || !last.Finished {
		t.Fatalf("terminal tick: %+v", last)
	}
	if s.Live() != 0 {
		t.Fatalf("finished handle must remove itself, live=%d", s.Live())
	}
}

func TestCountdown_ReachesTerminalState(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var nowMu sync.Mutex
	now := start

	s := NewCountdownScheduler()
	s.TickInterval = 5 * time.Millisecond
	s.Now = func() time.Time {
		nowMu.Lock()
		defer nowMu.Unlock()
		return now
	}
	defer s.StopAll()

	done := make(chan domain.Countdown, 1)
	s.Start("countdown-a", start.Add(2*time.Second).Unix(), func(c domain.Countdown) {
		if c.Finished {
			select {
			case done <- c:
			default:
			}
		}
	})

	// Avance l'horloge au-delà de la cible : le prochain tick est terminal.
	nowMu.Lock()
	now = start.Add(3 * time.Second)
	nowMu.Unlock()

	select {
	case c := <-done:
		if c.Text != "Airing now!" || !c.Urgent {
			t.Fatalf("terminal countdown: %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown never reached the terminal state")
	}

	if s.Live() != 0 {
		t.Fatalf("live handles after finish: %d", s.Live())
	}
}
