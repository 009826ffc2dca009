package diff

import (
	"fmt"
	"strings"
)

// Engine computes edit scripts. The zero value diffs text rune by rune.
//
// Tokenize, Equals and Join customize how text is split, compared and
// rebuilt. An Engine holds no per-call state and may be shared between
// goroutines as long as its hooks are safe for concurrent use.
type Engine struct {
	// Tokenize splits text into tokens. Empty tokens are discarded.
	Tokenize func(text string) ([]string, error)

	// Equals reports whether two tokens should be treated as the same.
	Equals func(left, right string) bool

	// Join rebuilds text from a run of tokens. Nil concatenates them,
	// which is what word diffs need since separators are tokens too.
	Join func(tokens []string) string

	// UseLongestToken makes unchanged segments keep, token by token, the
	// longer of the old and new spellings. Word diffs leave it off and
	// report the new spelling; it is for engines with lossy equality,
	// such as trimmed line comparison.
	UseLongestToken bool

	// MaxEditLength caps the number of edits explored. Zero means no cap.
	MaxEditLength int
}

// Diff tokenizes both texts and returns the edit script between them.
func (e *Engine) Diff(oldText, newText string) (EditScript, error) {
	oldTokens, err := e.tokenize(oldText)
	if err != nil {
		return nil, fmt.Errorf("tokenizing old text: %w", err)
	}
	newTokens, err := e.tokenize(newText)
	if err != nil {
		return nil, fmt.Errorf("tokenizing new text: %w", err)
	}
	return e.DiffTokens(oldTokens, newTokens)
}

// DiffAsync runs Diff on a new goroutine and reports the result through cb.
// cb is invoked exactly once; a panic raised while diffing is delivered as
// an error instead of crashing the caller.
func (e *Engine) DiffAsync(oldText, newText string, cb Callback) {
	Go(func() (EditScript, error) {
		return e.Diff(oldText, newText)
	}, cb)
}

// Go runs fn on a new goroutine and hands its result to cb exactly once.
// Panics in fn are recovered and reported as errors.
func Go(fn func() (EditScript, error), cb Callback) {
	if cb == nil {
		cb = func(EditScript, error) {}
	}
	go func() {
		var (
			script EditScript
			err    error
		)
		defer func() {
			if r := recover(); r != nil {
				script, err = nil, fmt.Errorf("diff: recovered panic: %v", r)
			}
			cb(script, err)
		}()
		script, err = fn()
	}()
}

// DiffTokens returns the edit script between two token sequences.
func (e *Engine) DiffTokens(oldTokens, newTokens []string) (EditScript, error) {
	s := &search{
		engine:    e,
		oldTokens: removeEmpty(oldTokens),
		newTokens: removeEmpty(newTokens),
	}
	return s.run()
}

func (e *Engine) tokenize(text string) ([]string, error) {
	if e.Tokenize != nil {
		return e.Tokenize(text)
	}
	tokens := make([]string, 0, len(text))
	for _, r := range text {
		tokens = append(tokens, string(r))
	}
	return tokens, nil
}

func (e *Engine) equals(left, right string) bool {
	if e.Equals != nil {
		return e.Equals(left, right)
	}
	return left == right
}

func (e *Engine) join(tokens []string) string {
	if e.Join != nil {
		return e.Join(tokens)
	}
	return strings.Join(tokens, "")
}

func removeEmpty(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
