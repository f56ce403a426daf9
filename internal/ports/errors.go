package ports

import "errors"

var ErrNotFound = errors.New("not found")

// ErrPermissionDenied : l'utilisateur a refusé la permission plateforme.
// La feature concernée se désactive, elle ne réessaie pas.
var ErrPermissionDenied = errors.New("permission denied")
