package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smazurov/procnode/internal/runtime"
)

// CreateRuntimesCmd creates the runtimes command.
func CreateRuntimesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runtimes",
		Short: "Detect installed JavaScript runtimes",
		Long:  `Probes the host for bun, node, and deno and prints their versions and paths.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			infos := runtime.Detect(context.Background())

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUNTIME\tAVAILABLE\tVERSION\tPATH")
			for _, info := range infos {
				available := "no"
				if info.Available {
					available = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, available, info.Version, info.Path)
			}
			w.Flush()
		},
	}
}
