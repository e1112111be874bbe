package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups this app's secrets in the OS keychain.
	KeyringService = "roomhunt"
	routesAccount  = "google-routes-api-key"
)

// RoutesAPIKey returns the Google Routes credential: OS keychain first,
// then the GOOGLE_API_KEY environment variable (loaded from .env by the
// entrypoint). Empty string means the travel-time service is disabled.
func RoutesAPIKey() string {
	if key, err := keyring.Get(KeyringService, routesAccount); err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key)
	}
	return strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
}

func SetRoutesAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, routesAccount, key)
}

func DeleteRoutesAPIKey() error {
	return keyring.Delete(KeyringService, routesAccount)
}
