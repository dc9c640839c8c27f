package main

import (
	"context"
	"log"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/ironsheep/image-compress-mcp/internal/cmd"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	rootCmd := cmd.NewRootCmd(cmd.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(Version),
		fang.WithCommit(GitCommit),
	); err != nil {
		os.Exit(1)
	}
}
