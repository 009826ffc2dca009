package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PixelogicMedia/worddiff/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective worddiff configuration",
		Long: `Print the configuration after merging defaults, the config file and
WORDDIFF_* environment variables.

Configuration is read from ~/.worddiff/config.yaml unless --config is given.

Examples:
  worddiff config
  worddiff config --json
  WORDDIFF_MODE=words_with_space worddiff config
  worddiff config path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.yaml")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
