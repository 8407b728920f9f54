package utils

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var ErrDatabaseURLMissing = errors.New("DATABASE_URL not set (in .env or environment)")

var envOnce sync.Once

// LoadEnv reads .env from the working directory once. A missing file is fine.
func LoadEnv() {
	envOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file found, continuing")
		}
	})
}

func GetDatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", ErrDatabaseURLMissing
	}
	return url, nil
}
