package domain

// NotificationThresholds sont les seuils d'alerte autorisés, en minutes.
var NotificationThresholds = []int{1, 5, 15, 30, 60}

func IsAllowedThreshold(minutes int) bool {
	for _, m := range NotificationThresholds {
		if m == minutes {
			return true
		}
	}
	return false
}

type NotificationSettings struct {
	Enabled             bool     `json:"enabled"`
	NotifyMinutesBefore int      `json:"notifyMinutesBefore"`
	OptedInTitles       []string `json:"optedInTitles"`
}

func (n NotificationSettings) OptedIn(title string) bool {
	for _, t := range n.OptedInTitles {
		if t == title {
			return true
		}
	}
	return false
}

type Settings struct {
	// AniList (optionnel): token perso pour requêtes auth (Viewer, watchlist).
	AniListToken string `json:"anilistToken"`

	// Plafond de résolutions streaming individuelles concurrentes.
	MaxConcurrentResolves int `json:"maxConcurrentResolves"`

	Notifications NotificationSettings `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxConcurrentResolves: 4,
		Notifications: NotificationSettings{
			Enabled:             false,
			NotifyMinutesBefore: 15,
			OptedInTitles:       []string{},
		},
	}
}
