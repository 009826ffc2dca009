package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/PixelogicMedia/worddiff/pkg/word"
)

const mcpSDKModule = "github.com/modelcontextprotocol/go-sdk"

// buildVersion describes this binary for `worddiff version`.
type buildVersion struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	Date           string `json:"date"`
	Go             string `json:"go"`
	MCPSDK         string `json:"mcp_sdk"`
	DefaultPattern string `json:"default_pattern"`
}

func currentVersion() buildVersion {
	return buildVersion{
		Version:        version,
		Commit:         commit,
		Date:           date,
		Go:             runtime.Version(),
		MCPSDK:         depVersion(mcpSDKModule),
		DefaultPattern: word.DefaultPattern,
	}
}

// depVersion reports the version of module linked into the binary, or
// "unknown" when build info is unavailable.
func depVersion(module string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != module {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		if dep.Version != "" {
			return dep.Version
		}
		break
	}
	return "unknown"
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := currentVersion()
			out := cmd.OutOrStdout()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(v)
			}

			fmt.Fprintf(out, "worddiff version %s (commit: %s, built: %s)\n", v.Version, v.Commit, v.Date)
			fmt.Fprintf(out, "  %s, mcp go-sdk %s\n", v.Go, v.MCPSDK)
			fmt.Fprintf(out, "  default pattern %s\n", v.DefaultPattern)
			return nil
		},
	}
}
