package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insha/gopher/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", version.Product, info.Version)
			if info.GitCommit != "" {
				fmt.Fprintf(out, "commit:   %s\n", info.GitCommit)
			}
			if info.BuildTime != "" {
				fmt.Fprintf(out, "built:    %s\n", info.BuildTime)
			}
			fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
			fmt.Fprintf(out, "platform: %s\n", info.Platform)
		},
	}
}
