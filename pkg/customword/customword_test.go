package customword

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PixelogicMedia/worddiff/internal/logging"
	"github.com/PixelogicMedia/worddiff/pkg/convert"
	"github.com/PixelogicMedia/worddiff/pkg/diff"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

const dialoguePattern = `(\(VO\)|\(ON\)|\(OFF\)|\s+|\b)`

func newDialogueDispatcher() *Dispatcher {
	return NewDispatcher(NewRegistry(dialoguePattern), slog.New(slog.DiscardHandler))
}

type asyncResult struct {
	script diff.EditScript
	err    error
}

// collect adapts a callback into a channel and waits for exactly one result.
func collect(t *testing.T, start func(cb diff.Callback)) asyncResult {
	t.Helper()
	ch := make(chan asyncResult, 2)
	start(func(script diff.EditScript, err error) {
		ch <- asyncResult{script, err}
	})

	var r asyncResult
	select {
	case r = <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked")
	}
	select {
	case <-ch:
		t.Error("callback invoked more than once")
	case <-time.After(20 * time.Millisecond):
	}
	return r
}

func TestRegistry(t *testing.T) {
	var r Registry
	if p, ok := r.Pattern(); ok || p != "" {
		t.Fatalf("zero Registry has pattern %q", p)
	}

	r.Set(dialoguePattern)
	if p, ok := r.Pattern(); !ok || p != dialoguePattern {
		t.Errorf("Pattern() = (%q, %v), want (%q, true)", p, ok, dialoguePattern)
	}

	r.Set(`\s+`)
	if p, _ := r.Pattern(); p != `\s+` {
		t.Errorf("last Set should win, got %q", p)
	}

	r.Clear()
	if _, ok := r.Pattern(); ok {
		t.Error("Clear() left a pattern installed")
	}

	// Invalid patterns are accepted; they fail at diff time.
	r.Set(`(`)
	if p, ok := r.Pattern(); !ok || p != `(` {
		t.Errorf("Set did not store invalid pattern, got (%q, %v)", p, ok)
	}
}

func TestMergeOptions(t *testing.T) {
	t.Run("no pattern passes nil through", func(t *testing.T) {
		if got := MergeOptions(nil, "", false); got != nil {
			t.Errorf("MergeOptions(nil) = %+v, want nil", got)
		}
	})

	t.Run("no pattern returns caller options", func(t *testing.T) {
		opts := &word.Options{IgnoreCase: true}
		if got := MergeOptions(opts, "", false); got != opts {
			t.Error("expected the caller's options to be returned unchanged")
		}
	})

	t.Run("pattern with nil options", func(t *testing.T) {
		got := MergeOptions(nil, dialoguePattern, true)
		want := &word.Options{TokenPattern: dialoguePattern}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("MergeOptions() = %+v, want %+v", got, want)
		}
	})

	t.Run("pattern overrides caller pattern without mutating", func(t *testing.T) {
		opts := &word.Options{
			TokenPattern:     `\s+`,
			IgnoreCase:       true,
			IgnoreWhitespace: word.Bool(false),
			MaxEditLength:    10,
		}
		got := MergeOptions(opts, dialoguePattern, true)

		if got == opts {
			t.Fatal("expected a new options value")
		}
		if got.TokenPattern != dialoguePattern {
			t.Errorf("TokenPattern = %q, want registry pattern", got.TokenPattern)
		}
		if !got.IgnoreCase || got.IgnoreWhitespace == nil || *got.IgnoreWhitespace || got.MaxEditLength != 10 {
			t.Errorf("caller fields not preserved: %+v", got)
		}
		if opts.TokenPattern != `\s+` {
			t.Errorf("caller options mutated: TokenPattern = %q", opts.TokenPattern)
		}
	})
}

func TestLiteralTokenPattern(t *testing.T) {
	got := LiteralTokenPattern("(VO)", "(ON)", "(OFF)")
	want := `(\(OFF\)|\(VO\)|\(ON\)|\s+|\b)`
	if got != want {
		t.Errorf("LiteralTokenPattern() = %s, want %s", got, want)
	}

	if got := LiteralTokenPattern(); got != `(\s+|\b)` {
		t.Errorf("LiteralTokenPattern() with no tokens = %s", got)
	}

	d := NewDispatcher(NewRegistry(got), slog.New(slog.DiscardHandler))
	script, err := d.DiffWordsWithSpace("(VO) gamal", "(VO)(ON) gamal", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}
	if x := convert.XML(script); x != "(VO)<ins>(ON)</ins> gamal" {
		t.Errorf("XML = %q", x)
	}
}

func TestDiffWithoutPatternMatchesWordDiff(t *testing.T) {
	d := NewDispatcher(nil, slog.New(slog.DiscardHandler))

	for _, tc := range []struct{ old, new string }{
		{"New Value", "New Value"},
		{"New Value", "New  ValueMoreData"},
		{"foo(bar)", "foo(baz)"},
	} {
		got, err := d.DiffWords(tc.old, tc.new, nil)
		if err != nil {
			t.Fatalf("DiffWords() error = %v", err)
		}
		want, err := word.Diff(tc.old, tc.new, nil)
		if err != nil {
			t.Fatalf("word.Diff() error = %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DiffWords(%q, %q) = %+v, want %+v", tc.old, tc.new, got, want)
		}

		got, err = d.DiffWordsWithSpace(tc.old, tc.new, nil)
		if err != nil {
			t.Fatalf("DiffWordsWithSpace() error = %v", err)
		}
		want, err = word.DiffWithSpace(tc.old, tc.new, nil)
		if err != nil {
			t.Fatalf("word.DiffWithSpace() error = %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DiffWordsWithSpace(%q, %q) = %+v, want %+v", tc.old, tc.new, got, want)
		}
	}
}

func TestClearRestoresDefaultTokenization(t *testing.T) {
	d := NewDispatcher(nil, slog.New(slog.DiscardHandler))
	before, err := d.DiffWordsWithSpace("gamal(ON)", "gamal(OFF)", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}

	d.Registry().Set(dialoguePattern)
	during, err := d.DiffWordsWithSpace("gamal(ON)", "gamal(OFF)", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}
	if reflect.DeepEqual(before, during) {
		t.Fatal("installed pattern had no effect")
	}

	d.Registry().Set("")
	after, err := d.DiffWordsWithSpace("gamal(ON)", "gamal(OFF)", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("after clear = %+v, want %+v", after, before)
	}
}

func TestDiffWords(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want string
	}{
		{"whitespace", "New Value", "New  ValueMoreData", "New  <del>Value</del><ins>ValueMoreData</ins>"},
		{"multiple whitespace values", "New Value  ", "New  ValueMoreData ", "New  <del>Value</del><ins>ValueMoreData</ins> "},
		{"word boundaries with leading colon", "New :Value:Test", "New  ValueMoreData ", "New  <del>:Value:Test</del><ins>ValueMoreData </ins>"},
		{"word boundaries colon", "New Value:Test", "New  Value:MoreData ", "New  Value:<del>Test</del><ins>MoreData </ins>"},
		{"word boundaries dash", "New Value-Test", "New  Value:MoreData ", "New  Value<del>-Test</del><ins>:MoreData </ins>"},
		{"word boundaries insert", "New Value", "New  Value:MoreData ", "New  Value<ins>:MoreData </ins>"},
		{"identity", "New Value", "New Value", "New Value"},
		{"empty", "", "", ""},
		{"identical content", "New Value", "New  Value", "New  Value"},
		{"empty new content", "New Value", "", "<del>New Value</del>"},
		{"empty old content", "", "New Value", "<ins>New Value</ins>"},
		{"no anchor", "New Value New Value", "Value Value New New", "<del>New</del><ins>Value</ins> Value New <del>Value</del><ins>New</ins>"},
		{"only whitespace added", "", " ", "<ins> </ins>"},
		{"only whitespace removed", " ", "", "<del> </del>"},
	}

	d := newDialogueDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := d.DiffWords(tt.old, tt.new, nil)
			if err != nil {
				t.Fatalf("DiffWords() error = %v", err)
			}
			if got := convert.XML(script); got != tt.want {
				t.Errorf("DiffWords(%q, %q) = %q, want %q", tt.old, tt.new, got, tt.want)
			}

			async := collect(t, func(cb diff.Callback) {
				d.DiffWordsAsync(tt.old, tt.new, nil, cb)
			})
			if async.err != nil {
				t.Fatalf("DiffWordsAsync() error = %v", async.err)
			}
			if !reflect.DeepEqual(async.script, script) {
				t.Errorf("async = %+v, sync = %+v", async.script, script)
			}
		})
	}
}

func TestDiffWordsEmptyIsEmptyScript(t *testing.T) {
	d := newDialogueDispatcher()
	script, err := d.DiffWords("", "", nil)
	if err != nil {
		t.Fatalf("DiffWords() error = %v", err)
	}
	if len(script) != 0 {
		t.Errorf("DiffWords(\"\", \"\") = %+v, want empty", script)
	}

	script, err = d.DiffWords("New Value", "", nil)
	if err != nil {
		t.Fatalf("DiffWords() error = %v", err)
	}
	if len(script) != 1 {
		t.Fatalf("expected a single segment, got %+v", script)
	}
}

func TestDiffWordsCounts(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want diff.EditScript
	}{
		{"identity single", "foo", "foo", diff.EditScript{{Value: "foo", Count: 1}}},
		{"identity pair", "foo bar", "foo bar", diff.EditScript{{Value: "foo bar", Count: 3}}},
		{"removed single", "foo", "", diff.EditScript{{Value: "foo", Count: 1, Removed: true}}},
		{"removed pair", "foo bar", "", diff.EditScript{{Value: "foo bar", Count: 3, Removed: true}}},
		{"added single", "", "foo", diff.EditScript{{Value: "foo", Count: 1, Added: true}}},
		{"added pair", "", "foo bar", diff.EditScript{{Value: "foo bar", Count: 3, Added: true}}},
		{"ignores whitespace", "hase igel fuchs", "hase igel fuchs", diff.EditScript{{Value: "hase igel fuchs", Count: 5}}},
		{"trailing newline added", "hase igel fuchs", "hase igel fuchs\n", diff.EditScript{{Value: "hase igel fuchs\n", Count: 5}}},
		{"trailing newline removed", "hase igel fuchs\n", "hase igel fuchs", diff.EditScript{{Value: "hase igel fuchs\n", Count: 5}}},
		{"newline for space", "hase igel fuchs", "hase igel\nfuchs", diff.EditScript{{Value: "hase igel\nfuchs", Count: 5}}},
		{"space for newline", "hase igel\nfuchs", "hase igel fuchs", diff.EditScript{{Value: "hase igel fuchs", Count: 5}}},
	}

	d := newDialogueDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.DiffWords(tt.old, tt.new, nil)
			if err != nil {
				t.Fatalf("DiffWords() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DiffWords(%q, %q) = %+v, want %+v", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestDiffWordsWhitespaceFlag(t *testing.T) {
	d := newDialogueDispatcher()
	script, err := d.DiffWords("New Value", "New  ValueMoreData", &word.Options{IgnoreWhitespace: word.Bool(false)})
	if err != nil {
		t.Fatalf("DiffWords() error = %v", err)
	}
	want := "New<del> Value</del><ins>  ValueMoreData</ins>"
	if got := convert.XML(script); got != want {
		t.Errorf("DiffWords() = %q, want %q", got, want)
	}
}

func TestDiffWordsWithSpace(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		opts *word.Options
		want string
	}{
		{"whitespace", "New Value", "New  ValueMoreData", nil, "New<del> Value</del><ins>  ValueMoreData</ins>"},
		{"multiple whitespace values", "New Value  ", "New  ValueMoreData ", nil, "New<ins>  ValueMoreData</ins> <del>Value  </del>"},
		{"ignore case with difference", "new value", "New  ValueMoreData", &word.Options{IgnoreCase: true}, "New<del> value</del><ins>  ValueMoreData</ins>"},
		{"ignore case without difference", "new value", "New Value", &word.Options{IgnoreCase: true}, "New Value"},
		{"dialogue tag ON", "(VO) gamal", "(VO)(ON) gamal", nil, "(VO)<ins>(ON)</ins> gamal"},
		{"dialogue tag OFF", "(ON) gamal", "(ON)(OFF) gamal", nil, "(ON)<ins>(OFF)</ins> gamal"},
	}

	d := newDialogueDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := d.DiffWordsWithSpace(tt.old, tt.new, tt.opts)
			if err != nil {
				t.Fatalf("DiffWordsWithSpace() error = %v", err)
			}
			if got := convert.XML(script); got != tt.want {
				t.Errorf("DiffWordsWithSpace(%q, %q) = %q, want %q", tt.old, tt.new, got, tt.want)
			}

			async := collect(t, func(cb diff.Callback) {
				d.DiffWordsWithSpaceAsync(tt.old, tt.new, tt.opts, cb)
			})
			if async.err != nil {
				t.Fatalf("DiffWordsWithSpaceAsync() error = %v", async.err)
			}
			if !reflect.DeepEqual(async.script, script) {
				t.Errorf("async = %+v, sync = %+v", async.script, script)
			}
		})
	}
}

func TestDialogueTagIsOneToken(t *testing.T) {
	d := newDialogueDispatcher()
	script, err := d.DiffWordsWithSpace("(VO) gamal", "(VO)(ON) gamal", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}
	want := diff.EditScript{
		{Value: "(VO)", Count: 1},
		{Value: "(ON)", Count: 1, Added: true},
		{Value: " gamal", Count: 2},
	}
	if !reflect.DeepEqual(script, want) {
		t.Errorf("DiffWordsWithSpace() = %+v, want %+v", script, want)
	}

	script, err = d.DiffWordsWithSpace("gamal(ON)", "gamal(OFF)", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}
	if got := convert.XML(script); got != "gamal<del>(ON)</del><ins>(OFF)</ins>" {
		t.Errorf("adjacent tag diff = %q", got)
	}
}

func TestWhitespaceModesDiverge(t *testing.T) {
	d := NewDispatcher(nil, slog.New(slog.DiscardHandler))

	collapsed, err := d.DiffWords("a b", "a   b", nil)
	if err != nil {
		t.Fatalf("DiffWords() error = %v", err)
	}
	if !collapsed.Unchanged() {
		t.Errorf("collapse mode reported edits: %+v", collapsed)
	}

	preserved, err := d.DiffWordsWithSpace("a b", "a   b", nil)
	if err != nil {
		t.Fatalf("DiffWordsWithSpace() error = %v", err)
	}
	if preserved.Unchanged() {
		t.Error("preserve mode reported no edits")
	}
}

func TestAsyncKeepsPatternFromSubmission(t *testing.T) {
	d := newDialogueDispatcher()

	r := collect(t, func(cb diff.Callback) {
		d.DiffWordsWithSpaceAsync("(VO) gamal", "(VO)(ON) gamal", nil, cb)
		d.Registry().Clear()
	})
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	for _, c := range r.script {
		if c.Added && c.Count != 1 {
			t.Errorf("inserted tag split into %d tokens, pattern was not captured at submission", c.Count)
		}
	}
}

func TestInvalidPatternSurfacesAtDiffTime(t *testing.T) {
	d := NewDispatcher(NewRegistry(`(\(VO\)`), slog.New(slog.DiscardHandler))

	_, err := d.DiffWords("a", "b", nil)
	if !errors.Is(err, word.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}

	r := collect(t, func(cb diff.Callback) {
		d.DiffWordsAsync("a", "b", nil, cb)
	})
	if !errors.Is(r.err, word.ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern via callback, got %v", r.err)
	}
	if r.script != nil {
		t.Errorf("expected nil script, got %+v", r.script)
	}
}

func TestUnknownMode(t *testing.T) {
	d := NewDispatcher(nil, slog.New(slog.DiscardHandler))

	if _, err := d.Diff(Mode(42), "a", "b", nil); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}

	r := collect(t, func(cb diff.Callback) {
		d.DiffAsync(Mode(42), "a", "b", nil, cb)
	})
	if !errors.Is(r.err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode via callback, got %v", r.err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"words", Words, false},
		{"", Words, false},
		{"words_with_space", WordsWithSpace, false},
		{"space", WordsWithSpace, false},
		{"lines", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDispatchLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(NewRegistry(dialoguePattern), logging.NewLogger("debug", &buf))

	if _, err := d.DiffWords("a", "b", nil); err != nil {
		t.Fatalf("DiffWords() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "dispatching word diff") || !strings.Contains(out, "custom_pattern=true") {
		t.Errorf("unexpected log output: %q", out)
	}
	if !strings.Contains(out, "async=false") {
		t.Errorf("sync dispatch should log async=false: %q", out)
	}

	buf.Reset()
	r := collect(t, func(cb diff.Callback) {
		d.DiffWordsWithSpaceAsync("a", "b", nil, cb)
	})
	if r.err != nil {
		t.Fatalf("DiffWordsWithSpaceAsync() error = %v", r.err)
	}
	out = buf.String()
	if !strings.Contains(out, "async=true") || !strings.Contains(out, "mode=words_with_space") {
		t.Errorf("async dispatch log missing fields: %q", out)
	}
}

func TestPackageLevelKnob(t *testing.T) {
	prev, had := BoundaryPattern()
	t.Cleanup(func() {
		if had {
			SetBoundaryPattern(prev)
		} else {
			SetBoundaryPattern("")
		}
	})

	SetBoundaryPattern("")
	if _, ok := BoundaryPattern(); ok {
		t.Fatal("expected no pattern after clearing")
	}
	script, err := DiffCustomWords("New Value", "New Value", nil)
	if err != nil {
		t.Fatalf("DiffCustomWords() error = %v", err)
	}
	if got := convert.XML(script); got != "New Value" {
		t.Errorf("DiffCustomWords() = %q", got)
	}

	SetBoundaryPattern(dialoguePattern)
	if p, ok := BoundaryPattern(); !ok || p != dialoguePattern {
		t.Fatalf("BoundaryPattern() = (%q, %v)", p, ok)
	}

	script, err = DiffCustomWordsWithSpace("(VO) gamal", "(VO)(ON) gamal", nil)
	if err != nil {
		t.Fatalf("DiffCustomWordsWithSpace() error = %v", err)
	}
	if got := convert.XML(script); got != "(VO)<ins>(ON)</ins> gamal" {
		t.Errorf("DiffCustomWordsWithSpace() = %q", got)
	}

	r := collect(t, func(cb diff.Callback) {
		DiffCustomWordsAsync("New Value", "New  ValueMoreData", nil, cb)
	})
	if r.err != nil {
		t.Fatalf("DiffCustomWordsAsync() error = %v", r.err)
	}
	if got := convert.XML(r.script); got != "New  <del>Value</del><ins>ValueMoreData</ins>" {
		t.Errorf("DiffCustomWordsAsync() = %q", got)
	}

	r = collect(t, func(cb diff.Callback) {
		DiffCustomWordsWithSpaceAsync("New Value  ", "New  ValueMoreData ", nil, cb)
	})
	if got := convert.XML(r.script); got != "New<ins>  ValueMoreData</ins> <del>Value  </del>" {
		t.Errorf("DiffCustomWordsWithSpaceAsync() = %q", got)
	}

	if Default().Registry() == nil {
		t.Error("Default() has no registry")
	}
}
