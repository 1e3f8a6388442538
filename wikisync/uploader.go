package wikisync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

// Uploader publishes every file and directory below LocalRoot as a wiki page under PathPrefix.
type Uploader struct {
	Store      PageStore
	LocalRoot  string
	PathPrefix string

	// Convert .html/.htm files to markdown before upload.
	ConvertHTML bool

	ShowProgress   bool
	ProgressOutput io.Writer

	Logger zerolog.Logger

	bar   *progress
	seen  map[string]bool
	chain dirChain
}

// Sync walks LocalRoot and upserts a page per entry, a directory before anything inside it.  It
// returns the normalized path, relative to LocalRoot and without file extensions, of every page it
// upserted, in the order it upserted them.
func (u *Uploader) Sync(ctx context.Context) ([]string, error) {
	total, err := CountLocalEntries(u.LocalRoot)
	if err != nil {
		return nil, fmt.Errorf("wikisync: couldn't survey local docs: %w", err)
	}
	u.Logger.Info().Int("entries", total).Str("root", u.LocalRoot).Msg("Uploading docs to wiki")

	u.seen = make(map[string]bool)
	if u.chain, err = newDirChain(u.LocalRoot); err != nil {
		return nil, err
	}
	u.bar = newProgress(u.ShowProgress, u.ProgressOutput, total, "upload")
	defer u.bar.Done()

	uploaded, err := u.syncDirectory(ctx, u.LocalRoot)
	if err != nil {
		return nil, err
	}

	if len(uploaded) != total {
		// only happens if the tree changes underneath us
		u.Logger.Warn().Int("expected", total).Int("uploaded", len(uploaded)).Msg("Upload count doesn't match local tree")
	}

	return uploaded, nil
}

func (u *Uploader) syncDirectory(ctx context.Context, directory string) ([]string, error) {
	u.Logger.Debug().Str("directory", directory).Msg("Traversing")

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("wikisync: couldn't read directory %s: %w", directory, err)
	}

	uploaded := []string{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("wikisync: upload interrupted: %w", err)
		}

		filePath := filepath.Join(directory, entry.Name())

		// Stat rather than entry.Info() so that symlinks are followed
		info, err := os.Stat(filePath)
		if err != nil {
			return nil, fmt.Errorf("wikisync: cannot stat '%s': %w", filePath, err)
		}

		relative, err := filepath.Rel(u.LocalRoot, filePath)
		if err != nil {
			return nil, fmt.Errorf("wikisync: couldn't get relative path: %w", err)
		}
		relative = filepath.ToSlash(relative)

		var content, resolved string
		if info.IsDir() {
			var loops bool
			resolved, loops, err = u.chain.loopsBack(filePath)
			if err != nil {
				return nil, err
			}
			if loops {
				u.Logger.Warn().Str("link", filePath).Str("target", resolved).Msg("Symlink loops back into the docs tree, skipping")
				continue
			}
			content = ParentPlaceholder
		} else {
			relative = pagepath.StripExtension(relative)
			content, err = u.readContent(filePath)
			if err != nil {
				return nil, err
			}
		}
		relative = pagepath.Normalize(relative)

		if u.seen[relative] {
			// e.g. "Classes/" next to "Classes.md": the later entry wins
			u.Logger.Warn().Str("page", relative).Str("file", filePath).Msg("Several local entries map to the same page")
		}
		u.seen[relative] = true

		if _, err := u.Store.UpsertPage(ctx, pagepath.Join(u.PathPrefix, relative), content); err != nil {
			return nil, fmt.Errorf("wikisync: couldn't upload %s: %w", filePath, err)
		}
		u.Logger.Debug().Str("page", relative).Msg("Upserted")
		uploaded = append(uploaded, relative)
		u.bar.Increment()

		if info.IsDir() {
			u.chain[resolved] = true
			children, err := u.syncDirectory(ctx, filePath)
			delete(u.chain, resolved)
			if err != nil {
				return nil, err
			}
			uploaded = append(uploaded, children...)
		}
	}

	return uploaded, nil
}

func (u *Uploader) readContent(filePath string) (string, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("wikisync: couldn't read file %s: %w", filePath, err)
	}

	if u.ConvertHTML && isHTML(filePath) {
		markdown, err := ConvertHTMLToMarkdown(string(source))
		if err != nil {
			return "", fmt.Errorf("wikisync: couldn't convert %s: %w", filePath, err)
		}
		return markdown, nil
	}

	return string(source), nil
}
