package customword

import (
	"github.com/PixelogicMedia/worddiff/pkg/diff"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

// The process-wide knob behind the package-level functions.
var defaultDispatcher = NewDispatcher(&Registry{}, nil)

// Default returns the dispatcher used by the package-level functions.
func Default() *Dispatcher {
	return defaultDispatcher
}

// SetBoundaryPattern installs pattern process-wide; "" restores the default
// word boundaries.
func SetBoundaryPattern(pattern string) {
	defaultDispatcher.registry.Set(pattern)
}

// BoundaryPattern returns the process-wide pattern, if any.
func BoundaryPattern() (string, bool) {
	return defaultDispatcher.registry.Pattern()
}

// DiffCustomWords diffs words using the process-wide boundary pattern,
// treating whitespace runs as equal.
func DiffCustomWords(oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	return defaultDispatcher.DiffWords(oldText, newText, opts)
}

// DiffCustomWordsWithSpace diffs words and whitespace runs using the
// process-wide boundary pattern.
func DiffCustomWordsWithSpace(oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	return defaultDispatcher.DiffWordsWithSpace(oldText, newText, opts)
}

// DiffCustomWordsAsync is the callback form of DiffCustomWords.
func DiffCustomWordsAsync(oldText, newText string, opts *word.Options, cb diff.Callback) {
	defaultDispatcher.DiffWordsAsync(oldText, newText, opts, cb)
}

// DiffCustomWordsWithSpaceAsync is the callback form of DiffCustomWordsWithSpace.
func DiffCustomWordsWithSpaceAsync(oldText, newText string, opts *word.Options, cb diff.Callback) {
	defaultDispatcher.DiffWordsWithSpaceAsync(oldText, newText, opts, cb)
}
