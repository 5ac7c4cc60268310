// Package template substitutes %(name)s placeholders in package.xml templates.
package template

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPlaceholder is returned when a template names a key without a value.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

const (
	placeholderOpen  = "%("
	placeholderClose = ")s"
)

// Render replaces every %(key)s in text with values[key] and every %% with %.
// Other % sequences are copied as-is.
func Render(text string, values map[string]string) (string, error) {
	return expand(text, func(key string) (string, error) {
		value, ok := values[key]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownPlaceholder, key)
		}

		return value, nil
	})
}

// Placeholders lists the keys referenced by text in order of first use.
func Placeholders(text string) []string {
	var (
		keys []string
		seen = make(map[string]struct{})
	)

	_, _ = expand(text, func(key string) (string, error) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}

		return "", nil
	})

	return keys
}

func expand(text string, lookup func(key string) (string, error)) (string, error) {
	var b strings.Builder

	b.Grow(len(text))

	for {
		i := strings.IndexByte(text, '%')
		if i < 0 {
			b.WriteString(text)

			return b.String(), nil
		}

		b.WriteString(text[:i])
		text = text[i:]

		switch {
		case strings.HasPrefix(text, "%%"):
			b.WriteByte('%')
			text = text[2:]
		case strings.HasPrefix(text, placeholderOpen):
			end := strings.Index(text, placeholderClose)
			if end < 0 {
				b.WriteString(text)

				return b.String(), nil
			}

			value, err := lookup(text[len(placeholderOpen):end])
			if err != nil {
				return "", err
			}

			b.WriteString(value)
			text = text[end+len(placeholderClose):]
		default:
			b.WriteByte('%')
			text = text[1:]
		}
	}
}
