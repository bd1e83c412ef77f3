// Package slug derives globally unique, URL-safe identifiers from
// free-text company names.
package slug

import (
	"strconv"
	"strings"
)

// Fallback is used when a name normalizes to nothing (e.g. "!!!").
const Fallback = "company"

// Make converts a display name into a URL-friendly slug. Every maximal run
// of characters outside [a-z0-9] collapses to a single hyphen, and leading
// or trailing hyphens are stripped.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	s := b.String()
	if s == "" {
		return Fallback
	}
	return s
}

// Allocate returns the first unused slug for the given display name,
// probing base, base-1, base-2, ... against the exists predicate. The
// result is deterministic for a fixed name and slug set. Allocation is
// not concurrency-safe on its own; the storage layer's unique index is
// the final arbiter and a colliding writer must retry.
func Allocate(name string, exists func(slug string) bool) string {
	base := Make(name)

	candidate := base
	for suffix := 1; exists(candidate); suffix++ {
		candidate = base + "-" + strconv.Itoa(suffix)
	}
	return candidate
}
