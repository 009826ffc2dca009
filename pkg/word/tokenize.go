package word

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// DefaultPattern splits on whitespace runs, brackets, quotes and word boundaries.
const DefaultPattern = `(\s+|[()[\]{}'"]|\b)`

// ErrInvalidPattern is returned when a boundary pattern does not compile.
var ErrInvalidPattern = errors.New("invalid boundary pattern")

// extendedWordChars matches runs of Latin letters, including accented ones
// that a plain \b would split apart.
var extendedWordChars = regexp.MustCompile(`^[A-Za-z\x{C0}-\x{2C6}\x{2C8}-\x{2D7}\x{2DE}-\x{2FF}\x{1E00}-\x{1EFF}]+$`)

var compiled sync.Map // pattern source -> *regexp.Regexp

// Compile compiles a boundary pattern. Successful compilations are cached,
// so repeated diffs with the same pattern do not recompile it.
func Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := compiled.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	actual, _ := compiled.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// Split splits s around matches of re, keeping the text of capture groups
// as separate elements. Groups that did not take part in a match yield "".
// Zero-width matches at the start of s, at its end, or directly after the
// previous match do not split.
func Split(re *regexp.Regexp, s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		start, end := m[0], m[1]
		if start == end && (start == last || start == len(s)) {
			continue
		}
		out = append(out, s[last:start])
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] < 0 {
				out = append(out, "")
				continue
			}
			out = append(out, s[m[g]:m[g+1]])
		}
		last = end
	}
	return append(out, s[last:])
}

// Tokenize splits s with re and re-joins Latin words that a zero-width
// boundary split apart (for example around accented letters). Empty
// tokens are dropped.
func Tokenize(re *regexp.Regexp, s string) []string {
	tokens := Split(re, s)
	for i := 0; i < len(tokens)-2; i++ {
		if tokens[i+1] == "" && tokens[i+2] != "" &&
			extendedWordChars.MatchString(tokens[i]) &&
			extendedWordChars.MatchString(tokens[i+2]) {
			tokens[i] += tokens[i+2]
			tokens = append(tokens[:i+1], tokens[i+3:]...)
			i--
		}
	}

	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
