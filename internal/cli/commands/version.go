package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display dashgrid version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if info.GoVersion == "" {
				info.GoVersion = runtime.Version()
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "dashgrid v%s\n", info.Version)
			if info.GitCommit != "" && info.GitCommit != "unknown" {
				_, _ = fmt.Fprintf(out, "commit %s, built %s\n", info.GitCommit, info.BuildDate)
			}
			_, _ = fmt.Fprintf(out, "%s %s/%s\n", info.GoVersion, runtime.GOOS, runtime.GOARCH)
		},
	}
}
