package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PixelogicMedia/worddiff/pkg/customword"
	"github.com/PixelogicMedia/worddiff/pkg/word"
)

func newPatternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Show or build the token boundary pattern",
		Long: `Print the boundary pattern diffs will use and check that it compiles.

With --tokens, print a pattern that keeps each literal token whole,
ready to paste into diff.boundary_pattern.

Examples:
  worddiff pattern
  worddiff pattern --tokens "(VO),(ON),(OFF)"
  worddiff pattern --split "gamal(ON) says"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			pattern, source := cfg.Diff.Pattern(), "config"
			if cmd.Flags().Changed("tokens") {
				tokens, err := cmd.Flags().GetStringSlice("tokens")
				if err != nil {
					return err
				}
				pattern, source = customword.LiteralTokenPattern(tokens...), "tokens"
			}
			installed := pattern != ""
			if !installed {
				pattern, source = word.DefaultPattern, "default"
			}

			result := map[string]interface{}{
				"pattern":   pattern,
				"installed": installed,
				"source":    source,
			}
			re, compileErr := word.Compile(pattern)
			if compileErr != nil {
				result["error"] = compileErr.Error()
			}

			sample, _ := cmd.Flags().GetString("split")
			var tokens []string
			if cmd.Flags().Changed("split") && re != nil {
				tokens = append([]string{}, word.Tokenize(re, sample)...)
				result["tokens"] = tokens
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, pattern)
				if compileErr == nil && tokens != nil {
					if len(tokens) == 0 {
						fmt.Fprintln(out, "  (no tokens)")
					}
					for _, tok := range tokens {
						fmt.Fprintf(out, "  %q\n", tok)
					}
				}
			}

			return compileErr
		},
	}

	cmd.Flags().StringSlice("tokens", nil, "Build a pattern from literal tokens")
	cmd.Flags().String("split", "", "Show how the pattern tokenizes this text")

	return cmd
}
