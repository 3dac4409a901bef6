package config

import (
	"log"
	"os"
	"strconv"
	"sync"
)

// BackendConfig points at the optional downstream service that stores graded decks.
type BackendConfig struct {
	BaseURL string
	UserID  int
}

var (
	backendConfig *BackendConfig
	backendOnce   sync.Once
)

func LoadBackendConfig() *BackendConfig {
	backendOnce.Do(func() {
		userID := 1
		if raw := os.Getenv("BACKEND_USER_ID"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				log.Printf("Warning: invalid BACKEND_USER_ID %q, defaulting to %d", raw, userID)
			} else {
				userID = n
			}
		}
		backendConfig = &BackendConfig{
			BaseURL: os.Getenv("BACKEND_URL"),
			UserID:  userID,
		}
	})
	return backendConfig
}
