package word

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/PixelogicMedia/worddiff/pkg/diff"
)

// Diff compares words, treating every whitespace run as equal to every
// other unless opts.IgnoreWhitespace is explicitly false.
func Diff(oldText, newText string, opts *Options) (diff.EditScript, error) {
	return run(oldText, newText, resolve(opts, true))
}

// DiffWithSpace compares words and whitespace runs as tokens of equal weight.
func DiffWithSpace(oldText, newText string, opts *Options) (diff.EditScript, error) {
	return run(oldText, newText, resolve(opts, false))
}

// DiffAsync is the callback form of Diff. Options are read before it
// returns; the comparison itself runs on another goroutine and every
// failure, including an invalid pattern, is reported through cb.
func DiffAsync(oldText, newText string, opts *Options, cb diff.Callback) {
	o := resolve(opts, true)
	diff.Go(func() (diff.EditScript, error) {
		return run(oldText, newText, o)
	}, cb)
}

// DiffWithSpaceAsync is the callback form of DiffWithSpace.
func DiffWithSpaceAsync(oldText, newText string, opts *Options, cb diff.Callback) {
	o := resolve(opts, false)
	diff.Go(func() (diff.EditScript, error) {
		return run(oldText, newText, o)
	}, cb)
}

func run(oldText, newText string, o Options) (diff.EditScript, error) {
	e, err := newEngine(o)
	if err != nil {
		return nil, err
	}
	return e.Diff(oldText, newText)
}

func newEngine(o Options) (*diff.Engine, error) {
	pattern := o.TokenPattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	return &diff.Engine{
		Tokenize: func(s string) ([]string, error) {
			return Tokenize(re, s), nil
		},
		Equals:        equality(o),
		MaxEditLength: o.MaxEditLength,
	}, nil
}

func equality(o Options) func(left, right string) bool {
	ignoreWhitespace := o.IgnoreWhitespace != nil && *o.IgnoreWhitespace
	same := o.Comparator
	if same == nil {
		same = func(left, right string) bool { return left == right }
	}
	var fold cases.Caser
	if o.IgnoreCase {
		fold = cases.Fold()
	}

	return func(left, right string) bool {
		if o.IgnoreCase {
			left, right = fold.String(left), fold.String(right)
		}
		return same(left, right) ||
			(ignoreWhitespace && isWhitespace(left) && isWhitespace(right))
	}
}

func isWhitespace(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
