// Package customword lets callers override where word diffs split tokens.
//
// A Registry holds at most one boundary pattern. Every diff issued through a
// Dispatcher reads the registry at call time and, when a pattern is
// installed, diffs with it in place of the default word boundaries. This
// keeps domain tokens such as the dialogue tags (VO), (ON) and (OFF) whole
// even when they touch other text.
//
// The registry is a single shared knob: the last Set wins and concurrent
// diffs may observe different patterns if it changes while they are being
// submitted. Callers needing per-call isolation should pass the pattern in
// word.Options directly, or use a Dispatcher with its own Registry.
package customword

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Registry holds the active boundary pattern. The zero value has no
// pattern installed and is ready to use. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	pattern string
}

// NewRegistry returns a registry with pattern installed. An empty pattern
// leaves the registry clear.
func NewRegistry(pattern string) *Registry {
	return &Registry{pattern: pattern}
}

// Set installs pattern, replacing any previous one. An empty pattern clears
// the registry. The pattern is not compiled here; an invalid pattern fails
// the next diff that uses it.
func (r *Registry) Set(pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pattern = pattern
}

// Clear removes the installed pattern.
func (r *Registry) Clear() {
	r.Set("")
}

// Pattern returns the installed pattern and whether one is installed.
func (r *Registry) Pattern() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pattern, r.pattern != ""
}

// LiteralTokenPattern builds a boundary pattern that keeps each literal
// token whole and otherwise splits on whitespace runs and word boundaries.
// Longer tokens are tried first so that overlapping tokens such as "(ON)"
// and "(ONE)" resolve to the longest match.
//
// \s in Go patterns is ASCII only, so a no-break space is not a whitespace
// run here. Text with such spaces needs a hand-written pattern using
// [\s\p{Zs}]+ in place of \s+.
func LiteralTokenPattern(tokens ...string) string {
	sorted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	parts := make([]string, 0, len(sorted)+2)
	for _, t := range sorted {
		parts = append(parts, regexp.QuoteMeta(t))
	}
	parts = append(parts, `\s+`, `\b`)
	return "(" + strings.Join(parts, "|") + ")"
}
