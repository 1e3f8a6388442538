/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Read-only views of the wiki",
	Long: `
Look at the wiki the way sync sees it, without changing anything.  Handy for checking a path prefix
before the first sync, or for seeing what an archive run would consider orphaned.
`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
