package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/PixelogicMedia/worddiff/internal/logging"
	"github.com/PixelogicMedia/worddiff/pkg/convert"
	"github.com/PixelogicMedia/worddiff/pkg/customword"
	"github.com/PixelogicMedia/worddiff/pkg/diff"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [OLD NEW]",
		Short: "Diff two texts word by word",
		Long: `Compare two texts and print the edit script.

Texts come from the positional arguments or from --old-file/--new-file.

Examples:
  worddiff diff "(VO) gamal" "(VO)(ON) gamal" --tokens "(VO),(ON),(OFF)" --space
  worddiff diff --old-file a.txt --new-file b.txt --format plain
  worddiff diff "Hello World" "hello world" --ignore-case --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldText, newText, err := readTexts(cmd, args)
			if err != nil {
				return err
			}

			rt, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := applyPatternFlags(cmd); err != nil {
				return err
			}

			mode, err := diffMode(cmd, rt)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, rt)
			if err != nil {
				return err
			}
			opts := diffOptions(cmd, rt)
			async, _ := cmd.Flags().GetBool("async")

			start := time.Now()
			var script diff.EditScript
			if async {
				script, err = await(cmd.Context(), rt.dispatcher, mode, oldText, newText, opts)
			} else {
				script, err = rt.dispatcher.Diff(mode, oldText, newText, opts)
			}
			rt.record("cli", mode, script, err, time.Since(start), oldText, newText)
			if err != nil {
				return fmt.Errorf("failed to diff: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(newDiffResult("", script, format))
			}

			rendered, err := convert.Render(script, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().String("old-file", "", "Read the original text from a file")
	cmd.Flags().String("new-file", "", "Read the revised text from a file")
	addDiffFlags(cmd)
	cmd.Flags().Bool("async", false, "Run the diff on the callback form")

	return cmd
}

// addDiffFlags registers the flags shared by diff and batch.
func addDiffFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("space", false, "Treat whitespace differences as significant")
	cmd.Flags().String("pattern", "", "Token boundary pattern, overriding the config")
	cmd.Flags().StringSlice("tokens", nil, "Literal tokens to keep whole, e.g. \"(VO),(ON)\"")
	cmd.Flags().Bool("ignore-case", false, "Compare tokens case-insensitively")
	cmd.Flags().Bool("ignore-whitespace", false, "Override the mode's whitespace handling")
	cmd.Flags().String("format", "", "Output format: xml, json, dmp, plain or color")
}

func readTexts(cmd *cobra.Command, args []string) (string, string, error) {
	oldFile, _ := cmd.Flags().GetString("old-file")
	newFile, _ := cmd.Flags().GetString("new-file")

	var texts []string
	for _, path := range []string{oldFile, newFile} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		texts = append(texts, string(data))
	}

	switch {
	case oldFile != "" && newFile != "":
		if len(args) > 0 {
			return "", "", fmt.Errorf("positional texts cannot be combined with --old-file and --new-file")
		}
		return texts[0], texts[1], nil
	case oldFile != "":
		if len(args) != 1 {
			return "", "", fmt.Errorf("--old-file needs the new text as the only argument")
		}
		return texts[0], args[0], nil
	case newFile != "":
		if len(args) != 1 {
			return "", "", fmt.Errorf("--new-file needs the old text as the only argument")
		}
		return args[0], texts[0], nil
	}

	if len(args) != 2 {
		return "", "", fmt.Errorf("expected OLD and NEW texts, got %d argument(s)", len(args))
	}
	return args[0], args[1], nil
}

// applyPatternFlags installs --pattern or --tokens over the configured
// boundary pattern.
func applyPatternFlags(cmd *cobra.Command) error {
	if cmd.Flags().Changed("pattern") {
		pattern, _ := cmd.Flags().GetString("pattern")
		customword.SetBoundaryPattern(pattern)
		return nil
	}
	if cmd.Flags().Changed("tokens") {
		tokens, err := cmd.Flags().GetStringSlice("tokens")
		if err != nil {
			return err
		}
		customword.SetBoundaryPattern(customword.LiteralTokenPattern(tokens...))
	}
	return nil
}

func diffMode(cmd *cobra.Command, rt *app) (customword.Mode, error) {
	if space, _ := cmd.Flags().GetBool("space"); space {
		return customword.WordsWithSpace, nil
	}
	return customword.ParseMode(rt.cfg.Diff.Mode)
}

func outputFormat(cmd *cobra.Command, rt *app) (convert.Format, error) {
	format := convert.Format(rt.cfg.Output.Format)
	if cmd.Flags().Changed("format") {
		f, _ := cmd.Flags().GetString("format")
		format = convert.Format(f)
	}
	if !format.Valid() {
		return "", fmt.Errorf("unknown format %q, expected one of %v", format, convert.Formats)
	}
	return format, nil
}

func diffOptions(cmd *cobra.Command, rt *app) *word.Options {
	opts := rt.cfg.Diff.Options()
	if cmd.Flags().Changed("ignore-case") {
		opts.IgnoreCase, _ = cmd.Flags().GetBool("ignore-case")
	}
	if cmd.Flags().Changed("ignore-whitespace") {
		v, _ := cmd.Flags().GetBool("ignore-whitespace")
		opts.IgnoreWhitespace = word.Bool(v)
	}
	return opts
}

type diffResult struct {
	script diff.EditScript
	err    error
}

// await submits the diff on the callback form and waits for it, or for ctx.
func await(ctx context.Context, d *customword.Dispatcher, mode customword.Mode, oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan diffResult, 1)
	d.DiffAsync(mode, oldText, newText, opts, func(script diff.EditScript, err error) {
		done <- diffResult{script: script, err: err}
	})

	select {
	case r := <-done:
		return r.script, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *app) record(source string, mode customword.Mode, script diff.EditScript, err error, elapsed time.Duration, oldText, newText string) {
	pattern, _ := a.dispatcher.Registry().Pattern()
	rec := logging.DiffRecord{
		Source:   source,
		Mode:     mode.String(),
		Pattern:  pattern,
		Segments: len(script),
		Duration: elapsed,
		OldText:  oldText,
		NewText:  newText,
	}
	rec.Added, rec.Removed = script.Stats()
	if err != nil {
		rec.Error = err.Error()
	}
	a.trace.Record(rec)
}

// DiffResult is the JSON shape of one diff.
type DiffResult struct {
	Name      string          `json:"name,omitempty"`
	Changes   diff.EditScript `json:"changes"`
	Added     int             `json:"added"`
	Removed   int             `json:"removed"`
	Unchanged bool            `json:"unchanged"`
	Rendered  string          `json:"rendered,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// newDiffResult builds the JSON result. Rendered is filled for text
// formats only; json and dmp would just repeat Changes.
func newDiffResult(name string, script diff.EditScript, format convert.Format) DiffResult {
	if script == nil {
		script = diff.EditScript{}
	}
	res := DiffResult{
		Name:      name,
		Changes:   script,
		Unchanged: script.Unchanged(),
	}
	res.Added, res.Removed = script.Stats()
	switch format {
	case convert.FormatXML, convert.FormatPlain:
		res.Rendered, _ = convert.Render(script, format)
	}
	return res
}
