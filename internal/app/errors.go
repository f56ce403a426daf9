package app

import (
	"errors"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/ports"
)

var ErrNotFound = ports.ErrNotFound

// ErrNothingToExport : aucun titre avec un instant de diffusion connu,
// on ne produit pas de calendrier vide-mais-valide.
var ErrNothingToExport = errors.New("nothing to export")

// CodedError porte un code d'erreur stable, recopié dans le champ Error des
// records fallback.
//
// Codes utilisés: no_external_id, http_status, network_error, bad_payload.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// errorLabel rend une description courte et stable pour un record fallback.
func errorLabel(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) && coded.Code != "" {
		if coded.Message != "" {
			return coded.Code + ": " + coded.Message
		}
		return coded.Code
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
