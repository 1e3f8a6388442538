package devops

import (
	"context"
	"fmt"

	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

// ListAllPages returns the path of every page below root, relative to root, parents before their
// own subtree.  The root page itself is left out: it's the prefix we sync into, not content.
func (api *API) ListAllPages(ctx context.Context, root string) ([]string, error) {
	tree, err := api.GetPageTree(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't list pages under %s: %w", root, err)
	}

	return FlattenPageTree(*tree, root), nil
}

// FlattenPageTree walks a page tree depth-first.  Pages outside root (which the API shouldn't
// return) and root itself are dropped.
func FlattenPageTree(tree Page, root string) []string {
	pages := []string{}

	var walk func(page Page)
	walk = func(page Page) {
		if rel, ok := pagepath.Relative(root, page.Path); ok && rel != "" {
			pages = append(pages, rel)
		}
		for _, sub := range page.SubPages {
			walk(sub)
		}
	}
	walk(tree)

	return pages
}
