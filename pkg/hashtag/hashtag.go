// Package hashtag normalizes user-supplied hashtag input into the canonical
// form the scrape pipeline submits to the provider.
package hashtag

import (
	"errors"
	"strings"
)

// ErrNoTags indicates that normalization left no usable hashtags.
var ErrNoTags = errors.New("no usable hashtags in input")

// Split breaks one comma-separated value into candidate tags. It performs no
// cleanup beyond the split; pass the result through Normalize.
func Split(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Normalize canonicalizes candidate tags: surrounding whitespace is trimmed,
// a single leading '#' is stripped, the remainder is lowercased. Empty
// values are dropped and duplicates are removed, keeping first-seen order.
// Returns ErrNoTags when nothing usable remains.
func Normalize(tags []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "#")
		tag = strings.ToLower(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	if len(out) == 0 {
		return nil, ErrNoTags
	}
	return out, nil
}

// Parse splits each value on commas and normalizes the combined candidate
// list. This is the entry point for CLI input, where tags may arrive as
// repeated flags, positional arguments, or one comma-separated string.
func Parse(values []string) ([]string, error) {
	var candidates []string
	for _, value := range values {
		candidates = append(candidates, Split(value)...)
	}
	return Normalize(candidates)
}
