package wikisync

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

// DryRunStore wraps a PageStore so that reads go through and writes are only logged.
//
// Archiving against it reports every orphan as moved, including children that a real run would
// have carried along with their parent.
type DryRunStore struct {
	Store  PageStore
	Logger zerolog.Logger
}

var _ PageStore = (*DryRunStore)(nil)

func (d *DryRunStore) GetPageETag(ctx context.Context, path string) (string, error) {
	return d.Store.GetPageETag(ctx, path)
}

func (d *DryRunStore) ListAllPages(ctx context.Context, root string) ([]string, error) {
	return d.Store.ListAllPages(ctx, root)
}

func (d *DryRunStore) UpsertPage(ctx context.Context, path string, content string) (string, error) {
	d.Logger.Info().Str("page", path).Int("bytes", len(content)).Msg("(dry run) would upsert")
	return pagepath.Normalize(path), nil
}

func (d *DryRunStore) MovePage(ctx context.Context, from string, to string) error {
	d.Logger.Info().Str("from", from).Str("to", to).Msg("(dry run) would move")
	return nil
}
