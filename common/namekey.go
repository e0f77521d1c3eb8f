package common

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptyNameKey = errors.New("name key cannot be empty")
	nonKeyChars     = regexp.MustCompile(`[^a-z0-9]+`)
	// Courtesy prefixes people type in front of supplier and customer names.
	namePrefixes = regexp.MustCompile(`^(m/s\.?|messrs\.?|mr\.?|mrs\.?|ms\.?|shri\.?|sri\.?)\s+`)
)

// NameKey folds a party name into the key suppliers and customers are deduplicated on, so
// "M/s Kumar Timbers" and "kumar  timbers" land on the same row. The fallback is used when
// nothing of the name survives.
func NameKey(name, fallback string) (string, error) {
	key := nameKey(name)
	if key == "" {
		key = nameKey(fallback)
	}
	if key == "" {
		return "", ErrEmptyNameKey
	}
	return key, nil
}

func nameKey(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = namePrefixes.ReplaceAllString(lower, "")
	key := nonKeyChars.ReplaceAllString(lower, "-")
	return strings.Trim(key, "-")
}
