package wikisync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

type storeCall struct {
	Op   string
	Path string
	To   string
}

// memStore behaves like the wiki as far as syncing cares: moves carry sub-pages along, and a move
// under a missing parent is refused.
type memStore struct {
	pages    map[string]string
	versions map[string]int
	calls    []storeCall

	// prefix listed paths with a slash, the way the real API formats them
	slashyListing bool

	failUpsert error
	failMove   error
	failList   error
}

func newMemStore(pages ...string) *memStore {
	s := &memStore{
		pages:    map[string]string{},
		versions: map[string]int{},
	}
	for _, p := range pages {
		s.pages[pagepath.Normalize(p)] = "existing " + p
		s.versions[pagepath.Normalize(p)] = 1
	}
	return s
}

func (s *memStore) eTag(p string) string {
	if _, ok := s.pages[p]; !ok {
		return ""
	}
	return fmt.Sprintf("v%d", s.versions[p])
}

func (s *memStore) GetPageETag(ctx context.Context, path string) (string, error) {
	p := pagepath.Normalize(path)
	s.calls = append(s.calls, storeCall{Op: "get", Path: p})
	return s.eTag(p), nil
}

func (s *memStore) UpsertPage(ctx context.Context, path string, content string) (string, error) {
	p := pagepath.Normalize(path)
	s.calls = append(s.calls, storeCall{Op: "upsert", Path: p})
	if s.failUpsert != nil {
		return "", s.failUpsert
	}
	s.pages[p] = content
	s.versions[p]++
	return p, nil
}

func (s *memStore) MovePage(ctx context.Context, from string, to string) error {
	from = pagepath.Normalize(from)
	to = pagepath.Normalize(to)
	s.calls = append(s.calls, storeCall{Op: "move", Path: from, To: to})
	if s.failMove != nil {
		return s.failMove
	}

	if _, ok := s.pages[from]; !ok {
		return fmt.Errorf("memstore: no page at %s", from)
	}
	if _, ok := s.pages[to]; ok {
		return fmt.Errorf("memstore: %s already exists", to)
	}
	if ancestors := pagepath.Ancestors(to); len(ancestors) > 0 {
		if _, ok := s.pages[ancestors[len(ancestors)-1]]; !ok {
			return fmt.Errorf("memstore: parent of %s does not exist", to)
		}
	}

	moved := map[string]string{}
	for p, content := range s.pages {
		if rel, ok := pagepath.Relative(from, p); ok {
			moved[pagepath.Join(to, rel)] = content
			delete(s.pages, p)
			delete(s.versions, p)
		}
	}
	for p, content := range moved {
		s.pages[p] = content
		s.versions[p] = 1
	}
	return nil
}

func (s *memStore) ListAllPages(ctx context.Context, root string) ([]string, error) {
	s.calls = append(s.calls, storeCall{Op: "list", Path: pagepath.Normalize(root)})
	if s.failList != nil {
		return nil, s.failList
	}

	pages := []string{}
	for p := range s.pages {
		if rel, ok := pagepath.Relative(root, p); ok && rel != "" {
			pages = append(pages, rel)
		}
	}
	// depth-first order: compare segment by segment
	sort.Slice(pages, func(i, j int) bool {
		return strings.ReplaceAll(pages[i], "/", "\x00") < strings.ReplaceAll(pages[j], "/", "\x00")
	})

	if s.slashyListing {
		for i := range pages {
			pages[i] = "/" + pages[i]
		}
	}
	return pages, nil
}

func (s *memStore) callsFor(op string) []storeCall {
	out := []storeCall{}
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) upsertedPaths() []string {
	out := []string{}
	for _, c := range s.callsFor("upsert") {
		out = append(out, c.Path)
	}
	return out
}

var errBoom = errors.New("boom")
