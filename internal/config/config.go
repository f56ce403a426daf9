package config

import "os"

type Config struct {
	Addr            string
	DBPath          string
	StreamingAPIURL string
	AniListURL      string
}

func Default() Config {
	return Config{
		Addr:            envOr("AAT_ADDR", "127.0.0.1:8080"),
		DBPath:          envOr("AAT_DB_PATH", "aat.db"),
		StreamingAPIURL: envOr("AAT_STREAMING_API_URL", "https://api.anime-airing-tracker.dev"),
		AniListURL:      envOr("AAT_ANILIST_URL", ""),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
