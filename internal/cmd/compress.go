package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compress-mcp/internal/clipboard"
	"github.com/ironsheep/image-compress-mcp/internal/imaging"
	"github.com/ironsheep/image-compress-mcp/internal/sets"
)

// compressionFlags are the per-run overrides of the configured options.
type compressionFlags struct {
	maxPixels  int
	tilePixels int
	quality    float64
	background string
}

func (f *compressionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxPixels, "max-pixels", 0, "Pixel ceiling of the output (default from config, 4000000)")
	cmd.Flags().IntVar(&f.tilePixels, "tile-pixels", 0, "Output pixel count above which drawing is tiled (default from config, 1000000)")
	cmd.Flags().Float64Var(&f.quality, "quality", 0, "JPEG quality factor from 0.0 to 1.0 (default from config, 0.1)")
	cmd.Flags().StringVar(&f.background, "background", "", "Background colour under transparent areas (default from config, #ffffff)")
}

func (f *compressionFlags) apply(opts imaging.Options) imaging.Options {
	if f.maxPixels > 0 {
		opts.MaxPixels = f.maxPixels
	}
	if f.tilePixels > 0 {
		opts.TilePixels = f.tilePixels
	}
	if f.quality > 0 {
		opts.Quality = f.quality
	}
	if f.background != "" {
		opts.Background = f.background
	}
	return opts
}

func newCompressCmd(a *app) *cobra.Command {
	var (
		flags     compressionFlags
		outputDir string
		suffix    string
		copyPaths bool
	)

	cmd := &cobra.Command{
		Use:   "compress FILE...",
		Short: "Compress image files to small JPEGs",
		Long: `Compress one or more image files.

Each FILE is downscaled to the pixel ceiling and re-encoded as a JPEG named
<name><suffix>.jpg, written to the output directory or next to the source.
Repeated files are compressed once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output-dir") {
				a.cfg.Output.Dir = outputDir
			}
			if cmd.Flags().Changed("suffix") {
				a.cfg.Output.Suffix = suffix
			}
			return a.runCompress(cmd, args, flags.apply(a.cfg.Compression), copyPaths)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for compressed files (default next to each source)")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Suffix added to compressed file names (default from config, _compressed)")
	cmd.Flags().BoolVar(&copyPaths, "copy", false, "Copy the output paths to the clipboard")

	return cmd
}

func (a *app) runCompress(cmd *cobra.Command, files []string, opts imaging.Options, copyPaths bool) error {
	cache := imaging.NewImageCache()
	out := cmd.OutOrStdout()

	var written []string
	var failed int
	for _, file := range sets.Union(cleanPaths(files)) {
		dst := imaging.OutputPath(file, a.cfg.Output.Dir, a.cfg.Output.Suffix)
		if dst == file {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s: output would overwrite the source\n", file)
			failed++
			continue
		}

		report, err := imaging.CompressFile(cache, file, opts)
		if err == nil {
			err = report.WriteFile(dst)
		}
		cache.Evict(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error compressing %s: %v\n", file, err)
			failed++
			continue
		}

		fmt.Fprintf(out, "%s -> %s  %dx%d -> %dx%d  %d -> %d bytes (%d%% saved)\n",
			file, dst,
			report.Plan.SourceWidth, report.Plan.SourceHeight, report.Plan.Width, report.Plan.Height,
			report.OriginalBytes, report.CompressedBytes, report.SavedPercent)
		written = append(written, dst)
	}

	if copyPaths && len(written) > 0 {
		if err := clipboard.Copy(strings.Join(written, "\n")); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not copy paths: %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, failed+len(written))
	}
	return nil
}

// cleanPaths makes paths absolute so the same file named two ways is
// compressed once.
func cleanPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out[i] = filepath.Clean(p)
	}
	return out
}
