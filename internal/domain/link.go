package domain

type OfficialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LinkRecord est la valeur du cache de liens streaming, indexée par ExternalID.
//
// Deux familles : record "résolu" (fetch OK, Error vide) ou record "fallback"
// (FreeLinks générés localement, OfficialLinks vide, Error éventuellement
// renseigné). Deux writers concurrents pour la même clé décrivent le même
// titre immuable : l'écrasement est donc idempotent, jamais corrupteur.
type LinkRecord struct {
	ExternalID    int64             `json:"externalId"`
	Title         string            `json:"title"`
	FreeLinks     map[string]string `json:"freeLinks"`
	OfficialLinks []OfficialLink    `json:"officialLinks"`
	Error         string            `json:"error,omitempty"`
}

// Resolved indique un record issu d'un fetch réussi. Les records fallback
// portent toujours un code d'erreur (voir app.FallbackRecord).
func (r LinkRecord) Resolved() bool {
	return r.Error == ""
}
