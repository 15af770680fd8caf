package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags, e.g.
// go build -ldflags "-X 'ctxllm/cmd.Version=1.0.0' -X 'ctxllm/cmd.Commit=abcdef'"
var (
	Version = "dev"
	Commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		if short {
			fmt.Println(Version)
			return nil
		}
		fmt.Printf("ctxllm version %s (commit: %s) with %s on %s/%s\n",
			Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
