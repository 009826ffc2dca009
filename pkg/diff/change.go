// Package diff computes edit scripts between two token sequences.
//
// The search is the O(ND) greedy algorithm described by Myers, exploring
// diagonals outward one edit at a time. Tokenization, equality and joining
// are pluggable so higher layers (words, characters) can reuse the same core.
package diff

import "errors"

// ErrMaxEditLength is returned when the edit distance exceeds Engine.MaxEditLength.
var ErrMaxEditLength = errors.New("diff: maximum edit length exceeded")

// Change is one segment of an edit script. At most one of Added and Removed
// is set; neither set means the segment is unchanged.
type Change struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Added   bool   `json:"added,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// EditScript is the ordered list of changes turning the old text into the new one.
type EditScript []Change

// Unchanged reports whether the script contains no added or removed segments.
func (s EditScript) Unchanged() bool {
	for _, c := range s {
		if c.Added || c.Removed {
			return false
		}
	}
	return true
}

// Stats returns the number of added and removed tokens.
func (s EditScript) Stats() (added, removed int) {
	for _, c := range s {
		switch {
		case c.Added:
			added += c.Count
		case c.Removed:
			removed += c.Count
		}
	}
	return added, removed
}

// Callback receives the result of an asynchronous diff. It is invoked exactly once.
type Callback func(script EditScript, err error)
