package domain

import "time"

// msEpochThreshold : en dessous, un timestamp est interprété en secondes.
// Les APIs amont mélangent secondes et millisecondes selon l'endpoint.
const msEpochThreshold = 2_000_000_000_000

// NormalizeTimestamp ramène un timestamp (secondes ou millisecondes epoch)
// à un time.Time UTC.
func NormalizeTimestamp(ts int64) time.Time {
	if ts < msEpochThreshold {
		return time.Unix(ts, 0).UTC()
	}
	return time.UnixMilli(ts).UTC()
}

type WatchStatus string

const (
	StatusWatching  WatchStatus = "watching"
	StatusPlanning  WatchStatus = "planning"
	StatusCompleted WatchStatus = "completed"
	StatusPaused    WatchStatus = "paused"
	StatusDropped   WatchStatus = "dropped"
)

type NextAiring struct {
	// Timestamp epoch, secondes ou millisecondes (voir NormalizeTimestamp).
	Timestamp int64 `json:"timestamp"`
	Episode   int   `json:"episodeNumber"`
}

func (n NextAiring) AiringAt() time.Time {
	return NormalizeTimestamp(n.Timestamp)
}

type WatchedTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// ExternalID est l'identifiant numérique du provider de métadonnées.
	// 0 = inconnu (résolution streaming impossible, fallback direct).
	ExternalID int64 `json:"externalId,omitempty"`

	CoverImage      string      `json:"coverImage,omitempty"`
	EpisodesWatched int         `json:"episodesWatched"`
	TotalEpisodes   int         `json:"totalEpisodes"`
	Status          WatchStatus `json:"status"`

	NextAiring *NextAiring `json:"nextAiring,omitempty"`
}

func (t WatchedTitle) HasAiring() bool {
	return t.NextAiring != nil && t.NextAiring.Timestamp > 0
}
