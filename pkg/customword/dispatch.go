package customword

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/PixelogicMedia/worddiff/pkg/diff"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

// Mode selects how whitespace between words is compared.
type Mode int

const (
	// Words treats all whitespace runs as equal.
	Words Mode = iota
	// WordsWithSpace keeps whitespace runs as tokens that can be added or removed.
	WordsWithSpace
)

// ErrUnknownMode is returned for a Mode outside Words and WordsWithSpace.
var ErrUnknownMode = errors.New("unknown comparison mode")

func (m Mode) String() string {
	switch m {
	case Words:
		return "words"
	case WordsWithSpace:
		return "words_with_space"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name ("words", "words_with_space") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "words", "":
		return Words, nil
	case "words_with_space", "space":
		return WordsWithSpace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

type comparison struct {
	run   func(oldText, newText string, opts *word.Options) (diff.EditScript, error)
	start func(oldText, newText string, opts *word.Options, cb diff.Callback)
}

var comparisons = map[Mode]comparison{
	Words:          {run: word.Diff, start: word.DiffAsync},
	WordsWithSpace: {run: word.DiffWithSpace, start: word.DiffWithSpaceAsync},
}

// Dispatcher routes word diffs through a Registry. Each call merges the
// registry's pattern into the caller's options when the call is made, so
// an asynchronous diff keeps the pattern it was submitted with.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher reading patterns from registry.
// A nil registry gets a fresh, empty one; a nil logger uses slog.Default().
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if registry == nil {
		registry = &Registry{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// DiffWords diffs with whitespace runs treated as equal.
func (d *Dispatcher) DiffWords(oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	return d.Diff(Words, oldText, newText, opts)
}

// DiffWordsWithSpace diffs with whitespace runs as significant tokens.
func (d *Dispatcher) DiffWordsWithSpace(oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	return d.Diff(WordsWithSpace, oldText, newText, opts)
}

// DiffWordsAsync is the callback form of DiffWords.
func (d *Dispatcher) DiffWordsAsync(oldText, newText string, opts *word.Options, cb diff.Callback) {
	d.DiffAsync(Words, oldText, newText, opts, cb)
}

// DiffWordsWithSpaceAsync is the callback form of DiffWordsWithSpace.
func (d *Dispatcher) DiffWordsWithSpaceAsync(oldText, newText string, opts *word.Options, cb diff.Callback) {
	d.DiffAsync(WordsWithSpace, oldText, newText, opts, cb)
}

// Diff runs a diff in the given mode and returns the engine's result unchanged.
func (d *Dispatcher) Diff(mode Mode, oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	cmp, effective, err := d.prepare(mode, oldText, newText, opts, false)
	if err != nil {
		return nil, err
	}
	return cmp.run(oldText, newText, effective)
}

// DiffAsync runs a diff in the given mode and reports through cb, which is
// called exactly once. No error is returned directly: every failure,
// including an unknown mode, goes to cb.
func (d *Dispatcher) DiffAsync(mode Mode, oldText, newText string, opts *word.Options, cb diff.Callback) {
	if cb == nil {
		cb = func(diff.EditScript, error) {}
	}
	cmp, effective, err := d.prepare(mode, oldText, newText, opts, true)
	if err != nil {
		diff.Go(func() (diff.EditScript, error) { return nil, err }, cb)
		return
	}
	cmp.start(oldText, newText, effective, cb)
}

// prepare picks the comparison for mode and merges the registry's pattern
// into opts as of now.
func (d *Dispatcher) prepare(mode Mode, oldText, newText string, opts *word.Options, async bool) (comparison, *word.Options, error) {
	cmp, ok := comparisons[mode]
	if !ok {
		return comparison{}, nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	pattern, installed := d.registry.Pattern()
	effective := MergeOptions(opts, pattern, installed)

	d.logger.Debug("dispatching word diff",
		"mode", mode.String(),
		"custom_pattern", installed,
		"async", async,
		"old_len", len(oldText),
		"new_len", len(newText))

	return cmp, effective, nil
}
