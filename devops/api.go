package devops

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NewAPI builds a client for one wiki in one Azure DevOps project.  orgURL looks like
// https://dev.azure.com/ORG, with or without a trailing slash.
func NewAPI(orgURL string, project string, wikiID string, token string) (*API, error) {

	if orgURL == "" {
		return nil, fmt.Errorf("devops: please provide the organisation URL, e.g. https://dev.azure.com/ORG")
	}
	if project == "" {
		return nil, fmt.Errorf("devops: please provide the project name")
	}
	if wikiID == "" {
		return nil, fmt.Errorf("devops: please provide the wiki identifier")
	}
	if token == "" {
		return nil, fmt.Errorf("devops: personal access token is empty")
	}

	u, err := url.ParseRequestURI(
		fmt.Sprintf("%s/%s/_apis/",
			strings.TrimRight(orgURL, "/"),
			url.PathEscape(project),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI: u,
		WikiID:  wikiID,
		token:   token,
	}
	a.Client = &http.Client{}

	return a, nil
}

type API struct {
	// Project-level API root, e.g. https://dev.azure.com/ORG/PROJECT/_apis/
	BaseURI *url.URL

	// Wiki name or ID, e.g. PROJECT.wiki
	WikiID string

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Per-request deadline.  Zero means requests run until the transport gives up.
	Timeout time.Duration

	// Personal access token
	token string
}
