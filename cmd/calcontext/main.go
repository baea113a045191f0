// calcontext serves a parsed, indexed view of C/AL object exports over MCP.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
