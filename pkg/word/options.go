// Package word diffs text at word granularity on top of the diff engine.
//
// Two comparison modes are offered. Diff treats any two whitespace runs as
// equal, so only the words themselves are compared. DiffWithSpace keeps
// whitespace runs as significant tokens that can be added or removed.
package word

// Options tune a word diff. A nil *Options is valid and means defaults.
type Options struct {
	// TokenPattern replaces the default boundary pattern. Capture groups
	// in the pattern are kept as tokens, the rest of each match is dropped.
	TokenPattern string `json:"token_pattern,omitempty" yaml:"token_pattern,omitempty"`

	// IgnoreCase compares tokens case-insensitively.
	IgnoreCase bool `json:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`

	// IgnoreWhitespace treats whitespace-only tokens as equal to each other.
	// Nil selects the mode default: true for Diff, false for DiffWithSpace.
	IgnoreWhitespace *bool `json:"ignore_whitespace,omitempty" yaml:"ignore_whitespace,omitempty"`

	// Comparator, when set, replaces exact string equality between tokens.
	// Case folding is applied before it is called.
	Comparator func(left, right string) bool `json:"-" yaml:"-"`

	// MaxEditLength aborts the diff once this many edits have been explored.
	MaxEditLength int `json:"max_edit_length,omitempty" yaml:"max_edit_length,omitempty"`
}

// Bool returns a pointer to v, for use with Options.IgnoreWhitespace.
func Bool(v bool) *bool {
	return &v
}

// Clone returns a shallow copy of o. Cloning nil returns an empty Options.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	c := *o
	if o.IgnoreWhitespace != nil {
		c.IgnoreWhitespace = Bool(*o.IgnoreWhitespace)
	}
	return &c
}

// resolve fixes the options for one call, filling in the mode's whitespace default.
func resolve(o *Options, ignoreWhitespace bool) Options {
	c := *o.Clone()
	if c.IgnoreWhitespace == nil {
		c.IgnoreWhitespace = Bool(ignoreWhitespace)
	}
	return c
}
