package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compress-mcp/internal/config"
)

// BuildInfo is the version metadata injected by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", b.Version, b.BuildTime, b.GitCommit)
}

// app is the state shared by all subcommands.
type app struct {
	info       BuildInfo
	configPath string
	cfg        *config.Config
}

// NewRootCmd creates and returns the root cobra command. Without a
// subcommand it runs the MCP server, which is how MCP clients launch it.
func NewRootCmd(info BuildInfo) *cobra.Command {
	a := &app{info: info}

	rootCmd := &cobra.Command{
		Use:   "image-compress-mcp",
		Short: "image-compress-mcp - shrink images to small JPEGs, as an MCP server or from the shell",
		Long: `image-compress-mcp downscales images to at most 4 megapixels and re-encodes
them as low-quality JPEGs, redrawing large images tile by tile.

Without a subcommand it runs as an MCP server over stdin/stdout.

Use subcommands to perform different operations:
  - serve: Run the MCP server
  - compress: Compress image files
  - plan: Show the downscale and tile math for a size
  - fetch: Download a file, optionally compressing it
  - watch: Compress images as they appear in directories`,
		Args:          cobra.NoArgs,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default "+config.DefaultPath+" when present)")

	groupServer := "server"
	groupImages := "images"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupServer,
		Title: "Server Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupImages,
		Title: "Image Commands",
	})

	serveCmd := newServeCmd(a)
	watchCmd := newWatchCmd(a)
	compressCmd := newCompressCmd(a)
	planCmd := newPlanCmd(a)
	fetchCmd := newFetchCmd(a)

	serveCmd.GroupID = groupServer
	watchCmd.GroupID = groupServer
	compressCmd.GroupID = groupImages
	planCmd.GroupID = groupImages
	fetchCmd.GroupID = groupImages

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(fetchCmd)

	return rootCmd
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Debug() {
		log.Printf("Image MCP %s", a.info)
	}
	return nil
}
