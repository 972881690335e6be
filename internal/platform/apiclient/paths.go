package apiclient

import (
	"errors"
	"net/url"
	"strings"
)

var ErrMissingIdentifier = errors.New("missing resource identifier")

// ResourcePath joins a collection path and an escaped identifier: ("/restaurants", "7") => "/restaurants/7".
func ResourcePath(base, id string) (string, error) {
	identifier := strings.TrimSpace(id)
	if identifier == "" {
		return "", ErrMissingIdentifier
	}
	return strings.TrimRight(strings.TrimSpace(base), "/") + "/" + url.PathEscape(identifier), nil
}

// Query builds url.Values from pairs, skipping blank keys and values.
func Query(pairs map[string]string) url.Values {
	values := url.Values{}
	for key, value := range pairs {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		values.Set(trimmedKey, trimmedValue)
	}
	return values
}
