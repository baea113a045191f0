package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/navkit/calcontext-mcp/internal/config"
)

var loadCmd = &cobra.Command{
	Use:   "load <path>...",
	Short: "Parse and index export files, then print the load report",
	Long:  "Loads the given export files or directories into a fresh index and prints the batch report as JSON. Useful to validate exports before serving.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	report, err := eng.loader.LoadPaths(cmd.Context(), args)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if report.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d objects failed to parse\n", report.Failed, report.Objects)
		os.Exit(1)
	}
	return nil
}
