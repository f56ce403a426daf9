package ports

// DedupLedger garantit le at-most-once par clé "{titre}_{épisode}" pour les
// notifications. Portée session : il n'est pas persisté, un redémarrage
// l'efface (comportement accepté).
type DedupLedger interface {
	Marked(key string) bool
	Mark(key string)
	Clear()
}
