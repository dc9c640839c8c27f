package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compress-mcp/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		flags     compressionFlags
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "watch DIR...",
		Short: "Compress images as they appear in directories",
		Long: `Watch one or more directories and compress every image that is created or
modified in them, once its writes have settled for the configured debounce.

Output goes to --output-dir (optionally in dated sub-directories, see
output.dated_dirs in the config) or next to the source with the configured
suffix. Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output-dir") {
				a.cfg.Output.Dir = outputDir
			}
			a.cfg.Compression = flags.apply(a.cfg.Compression)
			return a.runWatch(cmd, args)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for compressed files (default next to each source)")

	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, dirs []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(a.cfg, nil)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range w.Results() {
			if res.Err != nil {
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		}
	}()

	err = w.Run(ctx)
	<-done
	return err
}
