// Package sessionstore fournit le stockage clé/valeur de portée session.
// Process = session : rien n'est persisté, un redémarrage repart à vide.
package sessionstore

import "sync"

// Ledger implémente ports.DedupLedger. Append-only par clé, créé
// paresseusement, jamais contesté au-delà du sweep singleton (le mutex couvre
// aussi les lectures HTTP de debug).
type Ledger struct {
	mu     sync.Mutex
	marked map[string]bool
}

func NewLedger() *Ledger {
	return &Ledger{marked: make(map[string]bool)}
}

func (l *Ledger) Marked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.marked[key]
}

func (l *Ledger) Mark(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.marked[key] = true
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.marked = make(map[string]bool)
}
