package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meigma/isoset"
)

func main() {
	root := &cobra.Command{
		Use:   "isoset",
		Short: "Archive file selections to isolate servers and retrieve them by digest",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newArchiveCmd())
	root.AddCommand(newDownloadCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("isoset 0.1.0-dev")
		},
	}
}

// parseTarget parses "server,namespace" into a Target.
func parseTarget(s string) (isoset.Target, error) {
	server, namespace, ok := strings.Cut(s, ",")
	if !ok || server == "" || namespace == "" {
		return isoset.Target{}, fmt.Errorf("malformed target %q, want server,namespace", s)
	}
	return isoset.Target{Server: server, Namespace: namespace}, nil
}
