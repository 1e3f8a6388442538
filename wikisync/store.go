// Package wikisync mirrors a local tree of documentation files into a wiki, and moves wiki pages
// that no longer have a local counterpart into an archive subtree.
package wikisync

import "context"

// ParentPlaceholder is the content of pages that stand in for directories.
const ParentPlaceholder = "This is a parent page. Please see sub-pages for more information."

// PageStore is the slice of the wiki API that syncing needs.  All paths are page paths as
// understood by the pagepath package.
type PageStore interface {
	// GetPageETag returns "" (and no error) if the page doesn't exist.
	GetPageETag(ctx context.Context, path string) (string, error)

	// UpsertPage creates or updates a page and returns the path it was committed under.
	UpsertPage(ctx context.Context, path string, content string) (string, error)

	// MovePage moves a page and its sub-pages.  The destination's parent must exist.
	MovePage(ctx context.Context, from string, to string) error

	// ListAllPages returns every page under root, relative to root, parents first.
	ListAllPages(ctx context.Context, root string) ([]string, error)
}
