package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                int
	DatabaseURL         string
	RedisAddr           string
	RAWGAPIKey          string
	TMDBAPIKey          string
	SpotifyClientID     string
	SpotifyClientSecret string
	GoogleBooksAPIKey   string
}

func Load() *Config {
	return &Config{
		Port:                envInt("PORT", 8080),
		DatabaseURL:         env("DATABASE_URL", "postgres://medialib:medialib@db:5432/medialib?sslmode=disable"),
		RedisAddr:           env("REDIS_ADDR", ""),
		RAWGAPIKey:          env("RAWG_API_KEY", ""),
		TMDBAPIKey:          env("TMDB_API_KEY", ""),
		SpotifyClientID:     env("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: env("SPOTIFY_CLIENT_SECRET", ""),
		GoogleBooksAPIKey:   env("GOOGLE_BOOKS_API_KEY", ""),
	}
}

// QueueEnabled reports whether background enrichment jobs can run through
// Redis; without it enrichment falls back to in-process goroutines.
func (c *Config) QueueEnabled() bool {
	return c.RedisAddr != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
