/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/devops-wiki-sync/devops"
	"github.com/toothbrush/devops-wiki-sync/generator"
	"github.com/toothbrush/devops-wiki-sync/internal/logging"
	"github.com/toothbrush/devops-wiki-sync/internal/termfmt"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
	"github.com/toothbrush/devops-wiki-sync/wikisync"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

var syncUsage = strings.TrimSpace(`
Publish the docs directory to a wiki, then archive pages that no longer have a file.

  wiki-sync sync ORG_URL TOKEN PROJECT WIKI_ID PATH_PREFIX [ARCHIVE_PREFIX]

ORG_URL looks like https://dev.azure.com/ORG.  Pass - as TOKEN to read the personal access token
from WIKI_SYNC_TOKEN instead of the command line.  Every file below the docs directory becomes a
page below PATH_PREFIX, without its extension; every directory becomes a placeholder page.  When
ARCHIVE_PREFIX is given, pages below PATH_PREFIX that weren't just uploaded are moved there.
`)

var syncCmd = &cobra.Command{
	Use:   "sync ORG_URL TOKEN PROJECT WIKI_ID PATH_PREFIX [ARCHIVE_PREFIX]",
	Short: "Upload docs to the wiki and archive pages that went away",
	Long:  syncUsage,
	Args:  cobra.RangeArgs(5, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runSync(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), syncArgsFrom(args))
	},
}

var (
	DocsDir        string
	GenerateCmd    []string
	SourceDir      string
	ConvertHTML    bool
	DryRun         bool
	ShowProgress   bool
	WithVCR        bool
	VCRCassette    string
	RequestTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&DocsDir, "docs-dir", "docs", "local directory holding the generated docs")
	syncCmd.Flags().StringArrayVar(&GenerateCmd, "generate-cmd", []string{}, "command that generates the docs directory, repeat once per argument")
	syncCmd.Flags().StringVar(&SourceDir, "source-dir", generator.DefaultSourceDir, "source directory the generate command reads")
	syncCmd.Flags().BoolVar(&ConvertHTML, "convert-html", false, "convert .html files to markdown before upload")
	syncCmd.Flags().BoolVar(&DryRun, "dry-run", false, "log changes instead of making them")
	syncCmd.Flags().BoolVar(&ShowProgress, "progress", false, "show progress bars")
	syncCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record and replay wiki responses")
	syncCmd.Flags().StringVar(&VCRCassette, "vcr-cassette", "fixtures/wiki-sync", "cassette used by --with-vcr")
	syncCmd.Flags().DurationVar(&RequestTimeout, "request-timeout", 0, "deadline for each wiki request, 0 for none")
}

type syncArgs struct {
	OrgURL        string
	Token         string
	Project       string
	WikiID        string
	PathPrefix    string
	ArchivePrefix string
}

func syncArgsFrom(args []string) syncArgs {
	a := syncArgs{
		OrgURL:     args[0],
		Token:      args[1],
		Project:    args[2],
		WikiID:     args[3],
		PathPrefix: args[4],
	}
	if len(args) > 5 {
		a.ArchivePrefix = args[5]
	}
	return a
}

// resolveToken swaps a token of "-" for the one in the environment.
func resolveToken(token string) (string, error) {
	if token == "-" {
		token = Env.Token
		if token == "" {
			return "", fmt.Errorf("token is '-' but WIKI_SYNC_TOKEN is empty")
		}
	}
	if token == "" {
		return "", fmt.Errorf("please provide a personal access token")
	}
	return token, nil
}

func runSync(ctx context.Context, stdout io.Writer, stderr io.Writer, args syncArgs) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	token, err := resolveToken(args.Token)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	docsDir, err := homedir.Expand(DocsDir)
	if err != nil {
		return fmt.Errorf("sync: couldn't expand homedir: %w", err)
	}

	// The docs have to be there before we talk to the wiki at all.
	if len(GenerateCmd) > 0 {
		sourceDir, err := homedir.Expand(SourceDir)
		if err != nil {
			return fmt.Errorf("sync: couldn't expand homedir: %w", err)
		}
		Logger.Info().Strs("cmd", GenerateCmd).Msg("Generating documentation")
		g := &generator.Generator{
			Command:   GenerateCmd,
			SourceDir: sourceDir,
			OutputDir: docsDir,
			Stdout:    stdout,
			Stderr:    stderr,
		}
		if err := g.Generate(ctx); err != nil {
			return fmt.Errorf("sync: documentation generation failed: %w", err)
		}
	} else if err := generator.CheckOutput(docsDir); err != nil {
		return fmt.Errorf("sync: nothing to publish: %w", err)
	}

	api, err := devops.NewAPI(args.OrgURL, args.Project, args.WikiID, token)
	if err != nil {
		return fmt.Errorf("sync: couldn't instantiate wiki API: %w", err)
	}
	api.Timeout = RequestTimeout

	if WithVCR {
		r, err := newRecorder(VCRCassette)
		if err != nil {
			return err
		}
		defer r.Stop() // Make sure recorder is stopped once done with it
		api.Client = r.GetDefaultClient()
	}

	var store wikisync.PageStore = api
	if DryRun {
		Logger.Warn().Msg("Dry run, the wiki won't be changed")
		store = &wikisync.DryRunStore{Store: api, Logger: logging.WithComponent(Logger, "dry-run")}
	}

	Logger.Info().
		Str("wiki", api.WikiID).
		Str("docs", docsDir).
		Str("prefix", args.PathPrefix).
		Str("archive", args.ArchivePrefix).
		Msg("Publishing")

	summary, err := wikisync.Publish(ctx, wikisync.Options{
		Store:          store,
		LocalRoot:      docsDir,
		PathPrefix:     args.PathPrefix,
		ArchivePrefix:  args.ArchivePrefix,
		ConvertHTML:    ConvertHTML,
		ShowProgress:   ShowProgress,
		ProgressOutput: stderr,
		Logger:         Logger,
	})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	printSummary(stdout, args, summary)
	return nil
}

func newRecorder(cassetteName string) (*recorder.Recorder, error) {
	opts := &recorder.Options{
		CassetteName:       cassetteName,
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("sync: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	return r, nil
}

func printSummary(out io.Writer, args syncArgs, summary wikisync.Summary) {
	prefix := ""
	if DryRun {
		prefix = fmt.Sprint(termfmt.Fg(termfmt.Yellow).V("(dry run) "))
	}

	fmt.Fprintf(out, "%sUploaded %d pages below %s\n",
		prefix,
		termfmt.Bold().Fg(termfmt.Green).V(len(summary.Uploaded)),
		pagepath.WikiPath(args.PathPrefix))

	if summary.Archive == nil {
		return
	}

	report := summary.Archive
	fmt.Fprintf(out, "%sArchived %d pages to %s (%d moved along with a parent, %d parent pages created)\n",
		prefix,
		termfmt.Bold().Fg(termfmt.Yellow).V(len(report.Archived)),
		pagepath.WikiPath(args.ArchivePrefix),
		len(report.Skipped),
		len(report.CreatedParents))
	for _, m := range report.Archived {
		fmt.Fprintf(out, "  - %s %s %s\n", m.From, termfmt.Fg(termfmt.DarkGrey).V("->"), m.To)
	}
}
