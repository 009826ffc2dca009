package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/PixelogicMedia/worddiff/pkg/convert"
	"github.com/PixelogicMedia/worddiff/pkg/customword"
)

// batchFile is the YAML document read by the batch command.
type batchFile struct {
	Jobs []batchJob `yaml:"jobs"`
}

type batchJob struct {
	Name  string `yaml:"name"`
	Old   string `yaml:"old"`
	New   string `yaml:"new"`
	Space *bool  `yaml:"space,omitempty"`
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Diff many text pairs from a YAML file concurrently",
		Long: `Run every job in a YAML file and print the results in file order.

Jobs run concurrently on the callback form of the diff. All of them use
the boundary pattern in effect when the batch starts.

File format:
  jobs:
    - name: line-12
      old: "(VO) gamal"
      new: "(VO)(ON) gamal"
      space: true

Examples:
  worddiff batch script-changes.yaml --tokens "(VO),(ON),(OFF)"
  worddiff batch script-changes.yaml --concurrency 8 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := loadBatch(args[0])
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
			defaultMode, err := diffMode(cmd, rt)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, rt)
			if err != nil {
				return err
			}
			opts := diffOptions(cmd, rt)
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			results := make([]DiffResult, len(jobs))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(concurrency)
			for i, job := range jobs {
				mode := defaultMode
				if job.Space != nil {
					mode = customword.Words
					if *job.Space {
						mode = customword.WordsWithSpace
					}
				}
				name := job.Name
				if name == "" {
					name = fmt.Sprintf("job-%d", i+1)
				}

				g.Go(func() error {
					start := time.Now()
					script, err := await(gctx, rt.dispatcher, mode, job.Old, job.New, opts)
					rt.record("batch", mode, script, err, time.Since(start), job.Old, job.New)
					if gctx.Err() != nil {
						return gctx.Err()
					}

					results[i] = newDiffResult(name, script, format)
					if err != nil {
						rt.logger.Warn("batch job failed", "job", name, "error", err)
						results[i].Error = err.Error()
						return nil
					}
					if format != convert.FormatXML && format != convert.FormatPlain {
						results[i].Rendered, err = convert.Render(script, format)
					}
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return fmt.Errorf("batch interrupted: %w", err)
			}

			failed := 0
			for _, res := range results {
				if res.Error != "" {
					failed++
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, res := range results {
					fmt.Fprintf(out, "== %s ==\n", res.Name)
					if res.Error != "" {
						fmt.Fprintf(out, "error: %s\n", res.Error)
						continue
					}
					fmt.Fprintln(out, res.Rendered)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(results))
			}
			return nil
		},
	}

	addDiffFlags(cmd)
	cmd.Flags().Int("concurrency", 4, "Maximum number of diffs in flight")

	return cmd
}

func loadBatch(path string) ([]batchJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(file.Jobs) == 0 {
		return nil, fmt.Errorf("batch file %s has no jobs", path)
	}
	return file.Jobs, nil
}
