package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navkit/calcontext-mcp/internal/codeindex"
	"github.com/navkit/calcontext-mcp/internal/config"
	"github.com/navkit/calcontext-mcp/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", mcp.ServerName, version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", codeindex.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", codeindex.DriverName)
	},
}

// sqliteDriver names the active driver, or none when the code index is off.
func sqliteDriver(cfg config.Config) string {
	if !cfg.CodeIndex {
		return "none"
	}
	return codeindex.DriverName
}
