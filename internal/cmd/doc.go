// Package cmd provides the command-line interface of image-compress-mcp.
//
// It uses the Cobra library for command structure; main runs the root
// command through Fang for styled help and errors.
//
// The package is organized into the following commands:
//   - root: loads the configuration and runs serve when no subcommand is given
//   - serve: MCP server over stdin/stdout
//   - compress: compress image files to JPEG
//   - plan: print the downscale and tile math for a size
//   - fetch: download a file, optionally compressing it
//   - watch: compress images as they appear in directories
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command.
package cmd
