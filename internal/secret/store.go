package secret

import (
	"fmt"
	"strings"

	"sheetsfdw/internal/fdw"
)

// SecretStore provides a pluggable interface for storing sensitive data
// such as API tokens and destination passwords.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// RefPrefix marks an option value as a reference into the SecretStore.
const RefPrefix = "secret:"

// IsRef reports whether value is a secret reference.
func IsRef(value string) bool {
	return strings.HasPrefix(value, RefPrefix)
}

// Resolve returns value unchanged unless it is a secret reference, in which
// case the referenced secret is loaded. A missing secret is an error.
func Resolve(store SecretStore, value string) (string, error) {
	if !IsRef(value) {
		return value, nil
	}
	key := strings.TrimPrefix(value, RefPrefix)
	if store == nil {
		return "", fmt.Errorf("secret %q: no secret store configured", key)
	}
	v, err := store.Get(key)
	if err != nil {
		return "", fmt.Errorf("secret %q: %w", key, err)
	}
	if len(v) == 0 {
		return "", fmt.Errorf("secret %q not found", key)
	}
	return string(v), nil
}

// ResolveOptions returns a copy of opts with every secret reference resolved.
func ResolveOptions(store SecretStore, opts fdw.Options) (fdw.Options, error) {
	out := make(fdw.Options, len(opts))
	for k, v := range opts {
		resolved, err := Resolve(store, v)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}
