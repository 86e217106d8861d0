package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/meigma/isoset"
)

func newArchiveCmd() *cobra.Command {
	var (
		rootDir     string
		files       []string
		dirs        []string
		blacklist   []string
		server      string
		namespace   string
		extraTarget []string
		name        string
		binary      string
		timeout     time.Duration
		parallelism int
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive a file selection to one or more targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(rootDir)
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			if name == "" {
				name = filepath.Base(abs)
			}
			if len(files) == 0 && len(dirs) == 0 {
				dirs = []string{"."}
			}

			targets := []isoset.Target{{Server: server, Namespace: namespace}}
			for _, s := range extraTarget {
				target, err := parseTarget(s)
				if err != nil {
					return err
				}
				targets = append(targets, target)
			}

			set, err := isoset.BuildSet(abs, files, dirs, blacklist)
			if err != nil {
				return err
			}

			opts := []isoset.Option{
				isoset.WithBinary(binary),
				isoset.WithTimeout(timeout),
				isoset.WithParallelism(parallelism),
			}
			if verbose {
				opts = append(opts, isoset.WithLogger(
					slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))))
			}
			c, err := isoset.NewClient(opts...)
			if err != nil {
				return err
			}

			outcomes, err := c.Archive(cmd.Context(), name, set, targets...)
			if err != nil {
				return err
			}

			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", o.Target, o.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n  %s\n", o.Target, o.Result.Digest, o.Result.Link)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d targets failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "selection root directory")
	cmd.Flags().StringArrayVar(&files, "file", nil, "explicit file entry, repeatable (bypasses blacklist)")
	cmd.Flags().StringArrayVar(&dirs, "dir", nil, "directory entry, repeatable (default: whole root)")
	cmd.Flags().StringArrayVar(&blacklist, "blacklist", nil, "glob exclusion pattern, repeatable")
	cmd.Flags().StringVar(&server, "server", "", "isolate server URL")
	cmd.Flags().StringVar(&namespace, "namespace", "default-gzip", "content namespace")
	cmd.Flags().StringArrayVar(&extraTarget, "target", nil, "additional server,namespace target, repeatable")
	cmd.Flags().StringVar(&name, "name", "", "logical archive name (default: root base name)")
	cmd.Flags().StringVar(&binary, "binary", isoset.DefaultBinary, "backend binary")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-invocation timeout (0 = none)")
	cmd.Flags().IntVar(&parallelism, "parallelism", isoset.DefaultParallelism, "concurrent invocations")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log invocation progress")
	cobra.CheckErr(cmd.MarkFlagRequired("server"))

	return cmd
}
