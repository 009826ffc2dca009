package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PixelogicMedia/worddiff/internal/mcp"
	"github.com/PixelogicMedia/worddiff/pkg/convert"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run worddiff as an MCP server over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout.

Tools:
  worddiff_diff         diff two texts
  worddiff_set_pattern  install or clear the boundary pattern
  worddiff_get_pattern  report the installed pattern

The pattern set through worddiff_set_pattern lasts for the life of the
server process. worddiff_diff may read files below --root only.
Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadApp(cmd)
			if err != nil {
				return err
			}

			root, _ := cmd.Flags().GetString("root")
			server, err := mcp.NewServer(&mcp.Config{
				Name:        "worddiff",
				Version:     version,
				Dispatcher:  rt.dispatcher,
				Options:     rt.cfg.Diff.Options(),
				Format:      convert.Format(rt.cfg.Output.Format),
				AllowedDirs: []string{root},
				TraceLog:    rt.trace,
				Logger:      rt.logger,
			})
			if err != nil {
				rt.Close()
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			rt.logger.Info("starting mcp server", "version", version)
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String("root", ".", "Directory whose files worddiff_diff may read")

	return cmd
}
