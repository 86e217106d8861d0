package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/meigma/isoset"
)

func newDownloadCmd() *cobra.Command {
	var (
		server    string
		namespace string
		isolated  string
		output    string
		binary    string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Retrieve an archived digest into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(output)
			if err != nil {
				return fmt.Errorf("resolve output dir: %w", err)
			}

			c, err := isoset.NewClient(
				isoset.WithBinary(binary),
				isoset.WithTimeout(timeout),
			)
			if err != nil {
				return err
			}

			_, err = c.Download(cmd.Context(), isoset.DownloadRequest{
				Target:    isoset.Target{Server: server, Namespace: namespace},
				Digest:    isolated,
				OutputDir: abs,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s to %s\n", isolated, abs)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "isolate server URL")
	cmd.Flags().StringVar(&namespace, "namespace", "default-gzip", "content namespace")
	cmd.Flags().StringVar(&isolated, "isolated", "", "digest to retrieve")
	cmd.Flags().StringVar(&output, "output", "", "destination directory (created if absent)")
	cmd.Flags().StringVar(&binary, "binary", isoset.DefaultBinary, "backend binary")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "invocation timeout (0 = none)")
	cobra.CheckErr(cmd.MarkFlagRequired("server"))
	cobra.CheckErr(cmd.MarkFlagRequired("isolated"))
	cobra.CheckErr(cmd.MarkFlagRequired("output"))

	return cmd
}
