package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compress-mcp/internal/imaging"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		flags  compressionFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan WIDTH HEIGHT",
		Short: "Show the downscale and tile math for an image size",
		Long: `Print the output size, downscale ratio and tile grid that compress would
use for a WIDTH x HEIGHT image, without touching any file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid width %q: %w", args[0], err)
			}
			h, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid height %q: %w", args[1], err)
			}

			plan, err := imaging.NewPlan(w, h, flags.apply(a.cfg.Compression))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}

			fmt.Fprintf(out, "source:  %dx%d (%d px)\n", plan.SourceWidth, plan.SourceHeight, plan.SourceWidth*plan.SourceHeight)
			fmt.Fprintf(out, "ratio:   %.4f\n", plan.Ratio)
			fmt.Fprintf(out, "output:  %dx%d (%d px)\n", plan.Width, plan.Height, plan.Pixels())
			if plan.Tiled {
				fmt.Fprintf(out, "tiles:   %dx%d grid of %dx%d\n", plan.Count, plan.Count, plan.TileWidth, plan.TileHeight)
			} else {
				fmt.Fprintln(out, "tiles:   none (direct draw)")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")

	return cmd
}
