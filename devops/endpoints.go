package devops

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// pagesEndpoint returns the endpoint used to read, create and update a page:
// https://learn.microsoft.com/en-us/rest/api/azure/devops/wiki/pages?view=azure-devops-rest-6.0
func (a *API) pagesEndpoint(opts PageQuery) (*url.URL, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("devops: please provide a page path")
	}
	if opts.APIVersion == "" {
		opts.APIVersion = APIVersion
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("wiki/wikis/%s/pages", url.PathEscape(a.WikiID)))
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// pageMovesEndpoint returns the endpoint used to move (rename or reparent) a page:
// https://learn.microsoft.com/en-us/rest/api/azure/devops/wiki/page-moves/create?view=azure-devops-rest-6.0
func (a *API) pageMovesEndpoint() (*url.URL, error) {
	ep, err := a.resolveEndpoint(fmt.Sprintf("wiki/wikis/%s/pagemoves", url.PathEscape(a.WikiID)))
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(PageMovesQuery{APIVersion: APIVersion})
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("devops: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
