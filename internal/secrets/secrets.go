// Package secrets stores the model API key in the OS keychain.
// The OPENAI_API_KEY environment variable always wins over the keychain so
// CI and one-off runs need no keychain access.
package secrets

import (
	"errors"
	"os"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain namespace.
const ServiceName = "lastmile"

// keyAPIKey is the keychain entry holding the model API key.
const keyAPIKey = "openai_api_key"

// ErrNotFound is returned when no API key is stored anywhere.
var ErrNotFound = errors.New("no API key found: set OPENAI_API_KEY or run 'lastmile auth set-key'")

func openRing() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: ServiceName,
	})
}

// APIKey resolves the model API key: environment first, then keychain.
func APIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	ring, err := openRing()
	if err != nil {
		return "", ErrNotFound
	}
	item, err := ring.Get(keyAPIKey)
	if err != nil || len(item.Data) == 0 {
		return "", ErrNotFound
	}
	return string(item.Data), nil
}

// SetAPIKey stores the API key in the OS keychain.
func SetAPIKey(key string) error {
	ring, err := openRing()
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{
		Key:   keyAPIKey,
		Data:  []byte(key),
		Label: "lastmile model API key",
	})
}

// ClearAPIKey removes the stored API key. Missing entries are not an error.
func ClearAPIKey() error {
	ring, err := openRing()
	if err != nil {
		return err
	}
	err = ring.Remove(keyAPIKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
