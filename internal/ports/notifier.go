package ports

import "context"

// Notifier est la capacité de notification plateforme (collaborateur externe).
//
// RequestPermission renvoie false si l'utilisateur refuse : dans ce cas le
// réglage "notifications" doit rester désactivé côté appelant.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	Show(ctx context.Context, title, body, icon string) error
}
