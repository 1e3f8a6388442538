package devops

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/toothbrush/devops-wiki-sync/pagepath"
)

var (
	// ErrNotFound is wrapped into errors for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrConflict is wrapped into errors for 409 and 412 responses, i.e. a stale or missing ETag.
	ErrConflict = errors.New("conflict")
)

// GetPageETag returns the current ETag of the page at path, or "" if there is no such page.
func (api *API) GetPageETag(ctx context.Context, path string) (string, error) {
	ep, err := api.pagesEndpoint(PageQuery{Path: pagepath.WikiPath(path)})
	if err != nil {
		return "", fmt.Errorf("devops: couldn't get page endpoint: %w", err)
	}

	resp, err := api.request(ctx, http.MethodGet, ep, nil, "")
	if errors.Is(err, ErrNotFound) {
		// the absence of an ETag means the next upsert will create the page
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("devops: couldn't get page %s: %w", path, err)
	}

	return resp.header.Get("ETag"), nil
}

// UpsertPage creates the page at path, or updates it if it already exists.  The ETag is fetched
// fresh every time, because creating parents or moving pages can change it under us.  The
// committed path is returned so callers can keep track of what they published.
func (api *API) UpsertPage(ctx context.Context, path string, content string) (string, error) {
	eTag, err := api.GetPageETag(ctx, path)
	if err != nil {
		return "", fmt.Errorf("devops: couldn't fetch ETag before upsert: %w", err)
	}

	ep, err := api.pagesEndpoint(PageQuery{Path: pagepath.WikiPath(path)})
	if err != nil {
		return "", fmt.Errorf("devops: couldn't get page endpoint: %w", err)
	}

	resp, err := api.request(ctx, http.MethodPut, ep, PageCreateOrUpdate{Content: content}, eTag)
	if err != nil {
		return "", fmt.Errorf("devops: couldn't upsert page %s: %w", path, err)
	}

	var page Page
	if len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, &page); err != nil {
			return "", fmt.Errorf("devops: couldn't parse json response: %w", err)
		}
	}
	if page.Path == "" {
		page.Path = path
	}

	return pagepath.Normalize(page.Path), nil
}

// MovePage relocates a page, together with its sub-pages.  The parent of `to` has to exist
// already, the API refuses to move a page under a non-existent parent.
func (api *API) MovePage(ctx context.Context, from string, to string) error {
	ep, err := api.pageMovesEndpoint()
	if err != nil {
		return fmt.Errorf("devops: couldn't get page moves endpoint: %w", err)
	}

	move := PageMove{
		Path:     pagepath.WikiPath(from),
		NewPath:  pagepath.WikiPath(to),
		NewOrder: 0,
	}

	if _, err := api.request(ctx, http.MethodPost, ep, move, ""); err != nil {
		return fmt.Errorf("devops: couldn't move page %s to %s: %w", from, to, err)
	}

	return nil
}

// GetPageTree fetches the page at root with its entire subtree.
func (api *API) GetPageTree(ctx context.Context, root string) (*Page, error) {
	ep, err := api.pagesEndpoint(PageQuery{
		Path:           pagepath.WikiPath(root),
		RecursionLevel: RecursionFull,
	})
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't get page tree endpoint: %w", err)
	}

	resp, err := api.request(ctx, http.MethodGet, ep, nil, "")
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't perform request: %w", err)
	}

	// If we don't get any data, something has gone horribly wrong
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return nil, fmt.Errorf("devops: no data returned for page tree %s", root)
	}

	var page Page
	if err := json.Unmarshal(resp.body, &page); err != nil {
		return nil, fmt.Errorf("devops: couldn't parse json response: %w", err)
	}
	page.ETag = resp.header.Get("ETag")

	return &page, nil
}

type response struct {
	body   []byte
	header http.Header
}

// request performs one call against the API.  payload, if non-nil, is sent as JSON; eTag, if
// non-empty, goes into If-Match.
func (api *API) request(ctx context.Context, method string, url *url.URL, payload any, eTag string) (*response, error) {
	if api.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.Timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("devops: couldn't encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't instantiate http request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	// without this, auth failures redirect to a sign-in page instead of returning 401
	req.Header.Set("X-TFS-FedAuthRedirect", "Suppress")
	if eTag != "" {
		req.Header.Set("If-Match", eTag)
	}
	// PATs go in as the password of a basic auth pair; the username is ignored.
	req.SetBasicAuth("PAT", api.token)

	resp, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't perform http request: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("devops: couldn't read http response body: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return nil, fmt.Errorf("devops: couldn't close response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return &response{body: respBody, header: resp.Header}, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("devops: %w: %s", ErrNotFound, url.String())
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("devops: authentication failed: %s", resp.Status)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return nil, fmt.Errorf("devops: %w: %s%s", ErrConflict, resp.Status, errorDetail(respBody))
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("devops: service is not available: %s", resp.Status)
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("devops: internal server error: %s%s", resp.Status, errorDetail(respBody))
	}

	return nil, fmt.Errorf("devops: unknown HTTP response status: %s: %s%s", resp.Status, url.String(), errorDetail(respBody))
}

// errorDetail digs the message out of an Azure DevOps error body, if there is one.
func errorDetail(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Message == "" {
		return ""
	}
	return ": " + e.Message
}
