package mcp

import "github.com/PixelogicMedia/worddiff/pkg/diff"

// DiffInput defines the input for the worddiff_diff tool.
type DiffInput struct {
	Old              string `json:"old,omitempty" jsonschema:"Original text"`
	New              string `json:"new,omitempty" jsonschema:"Revised text"`
	OldFile          string `json:"old_file,omitempty" jsonschema:"Read the original text from this file instead of old"`
	NewFile          string `json:"new_file,omitempty" jsonschema:"Read the revised text from this file instead of new"`
	Space            bool   `json:"space,omitempty" jsonschema:"Treat whitespace differences as significant (words_with_space mode)"`
	IgnoreCase       *bool  `json:"ignore_case,omitempty" jsonschema:"Compare tokens case-insensitively"`
	IgnoreWhitespace *bool  `json:"ignore_whitespace,omitempty" jsonschema:"Override the mode's whitespace handling"`
	Format           string `json:"format,omitempty" jsonschema:"Rendering: xml, json, dmp, plain or color"`
}

// DiffOutput defines the output for the worddiff_diff tool.
type DiffOutput struct {
	Changes   diff.EditScript `json:"changes" jsonschema:"Ordered change segments"`
	Added     int             `json:"added" jsonschema:"Number of added tokens"`
	Removed   int             `json:"removed" jsonschema:"Number of removed tokens"`
	Unchanged bool            `json:"unchanged" jsonschema:"True when the texts compare equal"`
	Format    string          `json:"format" jsonschema:"Format of rendered"`
	Rendered  string          `json:"rendered" jsonschema:"The edit script rendered in format"`
	Pattern   string          `json:"pattern,omitempty" jsonschema:"Custom boundary pattern in effect, if any"`
}

// SetPatternInput defines the input for the worddiff_set_pattern tool.
// Leaving both fields empty clears the pattern.
type SetPatternInput struct {
	Pattern string   `json:"pattern,omitempty" jsonschema:"Regular expression splitting text into tokens; capture groups are kept as tokens"`
	Tokens  []string `json:"tokens,omitempty" jsonschema:"Literal tokens to keep whole, used when pattern is empty"`
}

// SetPatternOutput defines the output for the worddiff_set_pattern tool.
type SetPatternOutput struct {
	Pattern   string `json:"pattern" jsonschema:"Pattern now installed"`
	Installed bool   `json:"installed" jsonschema:"Whether a custom pattern is installed"`
	Previous  string `json:"previous,omitempty" jsonschema:"Pattern that was replaced"`
	Message   string `json:"message" jsonschema:"Human-readable result message"`
}

// GetPatternInput defines the input for the worddiff_get_pattern tool.
type GetPatternInput struct{}

// GetPatternOutput defines the output for the worddiff_get_pattern tool.
type GetPatternOutput struct {
	Pattern        string `json:"pattern" jsonschema:"Installed custom pattern"`
	Installed      bool   `json:"installed" jsonschema:"Whether a custom pattern is installed"`
	DefaultPattern string `json:"default_pattern" jsonschema:"Pattern used when none is installed"`
}
