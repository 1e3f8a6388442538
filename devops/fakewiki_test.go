package devops

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

// fakeWiki is a small in-memory stand-in for the Azure DevOps wiki pages API.
type fakeWiki struct {
	t  *testing.T
	mu sync.Mutex

	pages    map[string]string // normalized path -> content
	versions map[string]int
	requests []recordedRequest
}

type recordedRequest struct {
	Method  string
	Path    string
	IfMatch string
	Auth    string
	Body    string
}

func newFakeWiki(t *testing.T, pages ...string) *fakeWiki {
	w := &fakeWiki{
		t:        t,
		pages:    map[string]string{},
		versions: map[string]int{},
	}
	for _, p := range pages {
		w.pages[pagepath.Normalize(p)] = ""
		w.versions[pagepath.Normalize(p)] = 1
	}
	return w
}

func (w *fakeWiki) etag(p string) string {
	return fmt.Sprintf(`"v%d-%s"`, w.versions[p], p)
}

// start serves the wiki and returns an API client pointed at it.
func (w *fakeWiki) start() *API {
	server := httptest.NewServer(w)
	w.t.Cleanup(server.Close)

	api, err := NewAPI(server.URL+"/acme", "Widgets", "Widgets.wiki", "s3cret")
	require.NoError(w.t, err)
	return api
}

func (w *fakeWiki) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var body strings.Builder
	if r.Body != nil {
		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
			body.Write(raw)
		}
	}

	q := r.URL.Query()
	p := pagepath.Normalize(q.Get("path"))
	w.requests = append(w.requests, recordedRequest{
		Method:  r.Method,
		Path:    p,
		IfMatch: r.Header.Get("If-Match"),
		Auth:    r.Header.Get("Authorization"),
		Body:    body.String(),
	})

	if q.Get("api-version") != APIVersion {
		http.Error(rw, "bad api-version", http.StatusBadRequest)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/_apis/wiki/wikis/Widgets.wiki/pages"):
		w.servePages(rw, r, p, body.String())
	case strings.HasSuffix(r.URL.Path, "/_apis/wiki/wikis/Widgets.wiki/pagemoves") && r.Method == http.MethodPost:
		w.serveMove(rw, body.String())
	default:
		http.NotFound(rw, r)
	}
}

func (w *fakeWiki) servePages(rw http.ResponseWriter, r *http.Request, p string, body string) {
	_, exists := w.pages[p]

	switch r.Method {
	case http.MethodGet:
		if !exists && p != "" {
			writeJSON(rw, http.StatusNotFound, errorResponse{Message: "The page '/" + p + "' specified in the add operation does not exist."})
			return
		}
		rw.Header().Set("ETag", w.etag(p))
		if r.URL.Query().Get("recursionLevel") == RecursionFull {
			writeJSON(rw, http.StatusOK, w.tree(p))
			return
		}
		writeJSON(rw, http.StatusOK, Page{Path: pagepath.WikiPath(p)})

	case http.MethodPut:
		ifMatch := r.Header.Get("If-Match")
		if exists && ifMatch != w.etag(p) {
			writeJSON(rw, http.StatusPreconditionFailed, errorResponse{Message: "stale or missing version"})
			return
		}
		if !exists && ifMatch != "" {
			writeJSON(rw, http.StatusPreconditionFailed, errorResponse{Message: "no such page"})
			return
		}
		var update PageCreateOrUpdate
		if err := json.Unmarshal([]byte(body), &update); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		w.pages[p] = update.Content
		w.versions[p]++
		rw.Header().Set("ETag", w.etag(p))
		status := http.StatusOK
		if !exists {
			status = http.StatusCreated
		}
		writeJSON(rw, status, Page{Path: pagepath.WikiPath(p)})

	default:
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (w *fakeWiki) serveMove(rw http.ResponseWriter, body string) {
	var move PageMove
	if err := json.Unmarshal([]byte(body), &move); err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}
	from := pagepath.Normalize(move.Path)
	to := pagepath.Normalize(move.NewPath)
	if _, ok := w.pages[from]; !ok {
		writeJSON(rw, http.StatusNotFound, errorResponse{Message: "source does not exist"})
		return
	}
	moved := map[string]string{}
	for p, content := range w.pages {
		if rel, ok := pagepath.Relative(from, p); ok {
			moved[pagepath.Join(to, rel)] = content
			delete(w.pages, p)
		}
	}
	for p, content := range moved {
		w.pages[p] = content
		w.versions[p]++
	}
	writeJSON(rw, http.StatusCreated, PageMoveResponse{Path: move.Path, NewPath: move.NewPath})
}

// tree renders the subtree under root the way the API does with recursionLevel=Full.
func (w *fakeWiki) tree(root string) Page {
	children := map[string][]string{}
	for p := range w.pages {
		if rel, ok := pagepath.Relative(root, p); ok && rel != "" {
			ancestors := pagepath.Ancestors(p)
			parent := ""
			if len(ancestors) > 0 {
				parent = ancestors[len(ancestors)-1]
			}
			children[parent] = append(children[parent], p)
		}
	}

	var build func(p string) Page
	build = func(p string) Page {
		page := Page{Path: pagepath.WikiPath(p), IsParentPage: len(children[p]) > 0}
		kids := children[p]
		sort.Strings(kids)
		for _, kid := range kids {
			page.SubPages = append(page.SubPages, build(kid))
		}
		return page
	}
	return build(root)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func (w *fakeWiki) requestsWith(method string) []recordedRequest {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := []recordedRequest{}
	for _, r := range w.requests {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}
