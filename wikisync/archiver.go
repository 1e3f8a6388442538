package wikisync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Archiver moves pages under PathPrefix that weren't part of the latest upload into ArchivePrefix.
// Use a fresh Archiver per run: it remembers which archive parents it already created.
type Archiver struct {
	Store         PageStore
	PathPrefix    string
	ArchivePrefix string

	// Now supplies the collision suffix.  Defaults to time.Now.
	Now func() time.Time

	ShowProgress   bool
	ProgressOutput io.Writer

	Logger zerolog.Logger

	createdParents map[string]bool
}

// ErrSamePrefix means the archive would be the very subtree being synced.
var ErrSamePrefix = errors.New("archive prefix is the same as the path prefix")

// Move records one relocation, both paths absolute within the wiki.
type Move struct {
	From string
	To   string
}

// Report says what a Reconcile did.  Kept and Skipped are relative to PathPrefix.
type Report struct {
	Kept           []string
	Archived       []Move
	Skipped        []string
	CreatedParents []string
}

// Reconcile compares what's currently under PathPrefix with the pages just uploaded, and archives
// everything that wasn't uploaded.
func (a *Archiver) Reconcile(ctx context.Context, uploaded []string) (Report, error) {
	report := Report{}
	if a.createdParents == nil {
		a.createdParents = make(map[string]bool)
	}

	// An archive inside PathPrefix shows up in the listing; it and the pages leading to it stay put.
	archiveWithin, nested := pagepath.Relative(a.PathPrefix, a.ArchivePrefix)
	if nested && archiveWithin == "" {
		return report, fmt.Errorf("wikisync: %w: %s", ErrSamePrefix, pagepath.WikiPath(a.PathPrefix))
	}

	a.Logger.Info().Str("prefix", a.PathPrefix).Msg("Getting all current wiki pages")
	current, err := a.Store.ListAllPages(ctx, a.PathPrefix)
	if err != nil {
		return report, fmt.Errorf("wikisync: couldn't list current wiki pages: %w", err)
	}

	isUploaded := make(map[string]bool, len(uploaded))
	for _, p := range uploaded {
		isUploaded[pagepath.Normalize(p)] = true
	}

	orphans := []string{}
	for _, p := range current {
		page := pagepath.Normalize(p)
		if isUploaded[page] {
			report.Kept = append(report.Kept, page)
			continue
		}
		if nested && onArchivePath(page, archiveWithin) {
			a.Logger.Debug().Str("page", page).Msg("Part of the archive, leaving it alone")
			continue
		}
		orphans = append(orphans, page)
	}

	bar := newProgress(a.ShowProgress, a.ProgressOutput, len(orphans), "archive")
	defer bar.Done()

	for _, page := range orphans {
		a.Logger.Info().Str("page", page).Msg("Archiving page")
		move, archived, err := a.archivePage(ctx, page)
		if err != nil {
			return report, err
		}
		if archived {
			report.Archived = append(report.Archived, move)
		} else {
			report.Skipped = append(report.Skipped, page)
		}
		bar.Increment()
	}

	report.CreatedParents = maps.Keys(a.createdParents)
	slices.Sort(report.CreatedParents)

	return report, nil
}

// onArchivePath reports whether page is the archive root, inside it, or one of its ancestors.  All
// of those would end up moving a page into its own subtree.
func onArchivePath(page string, archive string) bool {
	if _, ok := pagepath.Relative(archive, page); ok {
		return true
	}
	_, ok := pagepath.Relative(page, archive)
	return ok
}

// archivePage moves one orphan.  It returns false if there was nothing left to move.
func (a *Archiver) archivePage(ctx context.Context, page string) (Move, bool, error) {
	from := pagepath.Join(a.PathPrefix, page)
	to := pagepath.Join(a.ArchivePrefix, page)

	// The page may already have been archived along with an ancestor, since moves take sub-pages
	// with them.
	eTag, err := a.Store.GetPageETag(ctx, from)
	if err != nil {
		return Move{}, false, fmt.Errorf("wikisync: couldn't check %s: %w", from, err)
	}
	if eTag == "" {
		a.Logger.Debug().Str("page", from).Msg("Already gone, skipping")
		return Move{}, false, nil
	}

	// the API rejects a move under a parent that doesn't exist
	if err := a.createParentPages(ctx, to); err != nil {
		return Move{}, false, err
	}

	to, err = a.freeArchivePath(ctx, to)
	if err != nil {
		return Move{}, false, err
	}

	if err := a.Store.MovePage(ctx, from, to); err != nil {
		return Move{}, false, fmt.Errorf("wikisync: couldn't archive %s: %w", from, err)
	}
	a.Logger.Debug().Str("from", from).Str("to", to).Msg("Moved")

	return Move{From: from, To: to}, true, nil
}

// createParentPages makes sure every ancestor of path exists, creating placeholders as needed.
func (a *Archiver) createParentPages(ctx context.Context, path string) error {
	for _, parent := range pagepath.Ancestors(path) {
		if a.createdParents[parent] {
			continue
		}

		eTag, err := a.Store.GetPageETag(ctx, parent)
		if err != nil {
			return fmt.Errorf("wikisync: couldn't check archive parent %s: %w", parent, err)
		}
		if eTag != "" {
			// exists already, and we don't want to overwrite it
			continue
		}

		if _, err := a.Store.UpsertPage(ctx, parent, ParentPlaceholder); err != nil {
			return fmt.Errorf("wikisync: couldn't create archive parent %s: %w", parent, err)
		}
		a.createdParents[parent] = true
		a.Logger.Debug().Str("page", parent).Msg("Created archive parent")
	}

	return nil
}

// freeArchivePath returns path, or path with a millisecond timestamp appended if something is
// already archived there.  A counter goes on top if even that is taken.
func (a *Archiver) freeArchivePath(ctx context.Context, path string) (string, error) {
	candidate := path
	for attempt := 0; ; attempt++ {
		eTag, err := a.Store.GetPageETag(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("wikisync: couldn't check archive destination %s: %w", candidate, err)
		}
		if eTag == "" {
			return candidate, nil
		}

		if attempt == 0 {
			candidate = fmt.Sprintf("%s-%d", path, a.now().UnixMilli())
			path = candidate
		} else {
			candidate = fmt.Sprintf("%s-%d", path, attempt)
		}
	}
}

func (a *Archiver) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
