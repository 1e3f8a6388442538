/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/devops-wiki-sync/devops"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

var listPagesUsage = strings.TrimSpace(`
Print every page below ROOT (default: the whole wiki), exactly as sync compares them against the
docs directory.  Pass - as TOKEN to read it from WIKI_SYNC_TOKEN.
`)

var listPagesCmd = &cobra.Command{
	Use:   "pages ORG_URL TOKEN PROJECT WIKI_ID [ROOT]",
	Short: "Print list of pages",
	Long:  listPagesUsage,
	Args:  cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		root := ""
		if len(args) > 4 {
			root = args[4]
		}
		return runListPages(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], args[2], args[3], root)
	},
}

func init() {
	listCmd.AddCommand(listPagesCmd)

	listPagesCmd.Flags().DurationVar(&RequestTimeout, "request-timeout", 0, "deadline for each wiki request, 0 for none")
}

func runListPages(ctx context.Context, out io.Writer, orgURL, token, project, wikiID, root string) error {
	token, err := resolveToken(token)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}

	api, err := devops.NewAPI(orgURL, project, wikiID, token)
	if err != nil {
		return fmt.Errorf("list pages: couldn't instantiate wiki API: %w", err)
	}
	api.Timeout = RequestTimeout

	Logger.Info().Str("wiki", wikiID).Str("root", pagepath.WikiPath(root)).Msg("Listing pages")
	pages, err := api.ListAllPages(ctx, root)
	if err != nil {
		return fmt.Errorf("list pages: couldn't list pages: %w", err)
	}
	Logger.Info().Int("pages", len(pages)).Msg("Listing complete")

	fmt.Fprintf(out, "pages:\n")
	for _, p := range pages {
		fmt.Fprintf(out, "  - %s\n", p)
	}

	return nil
}
