package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/PixelogicMedia/worddiff/internal/logging"
	"github.com/PixelogicMedia/worddiff/internal/pathutil"
	"github.com/PixelogicMedia/worddiff/internal/ratelimit"
	"github.com/PixelogicMedia/worddiff/pkg/convert"
	"github.com/PixelogicMedia/worddiff/pkg/customword"
	"github.com/PixelogicMedia/worddiff/pkg/diff"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

const patternURI = "worddiff://pattern"

// registerTools registers all worddiff MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "worddiff_diff",
		Description: "Compute a word-level diff between two texts using the installed boundary pattern",
	}, s.handleDiff)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "worddiff_set_pattern",
		Description: "Install, replace or clear the custom token boundary pattern used by later diffs",
	}, s.handleSetPattern)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "worddiff_get_pattern",
		Description: "Report the custom token boundary pattern currently installed",
	}, s.handleGetPattern)
}

// registerResources registers MCP resources for auto-loading into context.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         patternURI,
		Name:        "worddiff-boundary-pattern",
		Description: "The token boundary pattern worddiff_diff will use.",
		MIMEType:    "text/plain",
	}, s.handlePatternResource)
}

func (s *Server) handleDiff(ctx context.Context, req *sdk.CallToolRequest, args DiffInput) (_ *sdk.CallToolResult, _ DiffOutput, retErr error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "worddiff_diff"); err != nil {
		return nil, DiffOutput{}, err
	}

	oldText, err := s.readInput("old", args.Old, args.OldFile)
	if err != nil {
		return nil, DiffOutput{}, err
	}
	newText, err := s.readInput("new", args.New, args.NewFile)
	if err != nil {
		return nil, DiffOutput{}, err
	}

	mode := customword.Words
	if args.Space {
		mode = customword.WordsWithSpace
	}

	format := s.format
	if args.Format != "" {
		format = convert.Format(args.Format)
		if !format.Valid() {
			return nil, DiffOutput{}, fmt.Errorf("unknown format %q, expected one of %v", args.Format, convert.Formats)
		}
	}

	opts := s.options.Clone()
	if args.IgnoreCase != nil {
		opts.IgnoreCase = *args.IgnoreCase
	}
	if args.IgnoreWhitespace != nil {
		opts.IgnoreWhitespace = word.Bool(*args.IgnoreWhitespace)
	}

	pattern, _ := s.dispatcher.Registry().Pattern()
	start := time.Now()
	script, err := s.await(ctx, mode, oldText, newText, opts)

	rec := logging.DiffRecord{
		Source:   "mcp",
		Mode:     mode.String(),
		Pattern:  pattern,
		Segments: len(script),
		Duration: time.Since(start),
		OldText:  oldText,
		NewText:  newText,
	}
	rec.Added, rec.Removed = script.Stats()
	if err != nil {
		rec.Error = err.Error()
	}
	s.trace.Record(rec)

	if err != nil {
		return nil, DiffOutput{}, fmt.Errorf("diffing texts: %w", err)
	}
	if script == nil {
		script = diff.EditScript{}
	}

	rendered, err := convert.Render(script, format)
	if err != nil {
		return nil, DiffOutput{}, err
	}

	return nil, DiffOutput{
		Changes:   script,
		Added:     rec.Added,
		Removed:   rec.Removed,
		Unchanged: script.Unchanged(),
		Format:    string(format),
		Rendered:  rendered,
		Pattern:   pattern,
	}, nil
}

// readInput returns text, or the content of file when one is named.
func (s *Server) readInput(field, text, file string) (string, error) {
	if file == "" {
		return text, nil
	}
	if text != "" {
		return "", fmt.Errorf("%s and %s_file are mutually exclusive", field, field)
	}
	content, err := pathutil.ReadText(file, s.allowedDirs, 0)
	if err != nil {
		return "", fmt.Errorf("reading %s_file: %w", field, err)
	}
	return content, nil
}

type diffResult struct {
	script diff.EditScript
	err    error
}

// await runs the diff on the callback form so a cancelled request
// returns without waiting for the search to finish.
func (s *Server) await(ctx context.Context, mode customword.Mode, oldText, newText string, opts *word.Options) (diff.EditScript, error) {
	done := make(chan diffResult, 1)
	s.dispatcher.DiffAsync(mode, oldText, newText, opts, func(script diff.EditScript, err error) {
		done <- diffResult{script: script, err: err}
	})

	select {
	case r := <-done:
		return r.script, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) handleSetPattern(ctx context.Context, req *sdk.CallToolRequest, args SetPatternInput) (_ *sdk.CallToolResult, _ SetPatternOutput, retErr error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "worddiff_set_pattern"); err != nil {
		return nil, SetPatternOutput{}, err
	}

	pattern := args.Pattern
	if pattern == "" && len(args.Tokens) > 0 {
		pattern = customword.LiteralTokenPattern(args.Tokens...)
	}

	// Registry.Set does not validate.
	if pattern != "" {
		if _, err := word.Compile(pattern); err != nil {
			return nil, SetPatternOutput{}, err
		}
	}

	registry := s.dispatcher.Registry()
	previous, _ := registry.Pattern()
	registry.Set(pattern)
	s.logger.Info("boundary pattern changed", "pattern", pattern, "previous", previous)

	out := SetPatternOutput{
		Pattern:   pattern,
		Installed: pattern != "",
		Previous:  previous,
	}
	if out.Installed {
		out.Message = fmt.Sprintf("installed boundary pattern %s", pattern)
	} else {
		out.Message = "cleared boundary pattern, diffs use the default tokenizer"
	}
	return nil, out, nil
}

func (s *Server) handleGetPattern(ctx context.Context, req *sdk.CallToolRequest, args GetPatternInput) (_ *sdk.CallToolResult, _ GetPatternOutput, retErr error) {
	if err := ratelimit.CheckLimit(s.toolLimiters, "worddiff_get_pattern"); err != nil {
		return nil, GetPatternOutput{}, err
	}

	pattern, installed := s.dispatcher.Registry().Pattern()
	return nil, GetPatternOutput{
		Pattern:        pattern,
		Installed:      installed,
		DefaultPattern: word.DefaultPattern,
	}, nil
}

// handlePatternResource returns the pattern worddiff_diff will use,
// falling back to the default tokenizer's pattern.
func (s *Server) handlePatternResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	pattern, installed := s.dispatcher.Registry().Pattern()
	if !installed {
		pattern = word.DefaultPattern
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      patternURI,
				MIMEType: "text/plain",
				Text:     pattern,
			},
		},
	}, nil
}
