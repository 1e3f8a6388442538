package wikisync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/toothbrush/devops-wiki-sync/internal/logging"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

// Options configures one Publish run.
type Options struct {
	Store     PageStore
	LocalRoot string

	PathPrefix string
	// Where orphaned pages go.  Empty means don't archive at all.
	ArchivePrefix string

	ConvertHTML    bool
	ShowProgress   bool
	ProgressOutput io.Writer

	Now    func() time.Time
	Logger zerolog.Logger
}

// Summary is the outcome of a Publish run.  Archive is nil when archiving was skipped.
type Summary struct {
	Uploaded []string
	Archive  *Report
}

// Publish uploads LocalRoot, then archives whatever under PathPrefix the upload didn't touch.
func Publish(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{}

	if opts.ArchivePrefix != "" && pagepath.Normalize(opts.ArchivePrefix) == pagepath.Normalize(opts.PathPrefix) {
		return summary, fmt.Errorf("wikisync: %w: %s", ErrSamePrefix, pagepath.WikiPath(opts.PathPrefix))
	}

	uploader := &Uploader{
		Store:          opts.Store,
		LocalRoot:      opts.LocalRoot,
		PathPrefix:     opts.PathPrefix,
		ConvertHTML:    opts.ConvertHTML,
		ShowProgress:   opts.ShowProgress,
		ProgressOutput: opts.ProgressOutput,
		Logger:         logging.WithComponent(opts.Logger, "uploader"),
	}

	uploaded, err := uploader.Sync(ctx)
	if err != nil {
		return summary, fmt.Errorf("wikisync: upload failed: %w", err)
	}
	summary.Uploaded = uploaded
	opts.Logger.Info().Int("pages", len(uploaded)).Msg("Upload complete!")

	if opts.ArchivePrefix == "" {
		opts.Logger.Info().Msg("No archive path given, skipping archiving")
		return summary, nil
	}

	archiver := &Archiver{
		Store:          opts.Store,
		PathPrefix:     opts.PathPrefix,
		ArchivePrefix:  opts.ArchivePrefix,
		Now:            opts.Now,
		ShowProgress:   opts.ShowProgress,
		ProgressOutput: opts.ProgressOutput,
		Logger:         logging.WithComponent(opts.Logger, "archiver"),
	}

	report, err := archiver.Reconcile(ctx, uploaded)
	if err != nil {
		return summary, fmt.Errorf("wikisync: archiving failed: %w", err)
	}
	summary.Archive = &report
	opts.Logger.Info().Int("archived", len(report.Archived)).Int("skipped", len(report.Skipped)).Msg("Archive complete!")

	return summary, nil
}
