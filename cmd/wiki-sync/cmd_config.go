/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var configUsage = strings.TrimSpace(`
Inspect the settings wiki-sync runs with.  Every sync flag can also be set in a YAML file, keyed by
the flag name (~/.config/wiki-sync.yaml unless --config or WIKI_SYNC_CONFIG say otherwise), and
WIKI_SYNC_* variables are read from the environment or a .env file.  Flags on the command line
always win.
`)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where settings come from and what they resolve to",
	Long:  configUsage,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
