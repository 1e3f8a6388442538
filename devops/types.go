package devops

// See https://learn.microsoft.com/en-us/rest/api/azure/devops/wiki/pages/get-page?view=azure-devops-rest-6.0#wikipage.
// Only the fields we use for syncing are mapped; content is never read back.
type Page struct {
	ID           int    `json:"id,omitempty"`
	Path         string `json:"path"`
	Order        int    `json:"order,omitempty"`
	GitItemPath  string `json:"gitItemPath,omitempty"`
	IsParentPage bool   `json:"isParentPage,omitempty"`
	RemoteURL    string `json:"remoteUrl,omitempty"`
	URL          string `json:"url,omitempty"`

	SubPages []Page `json:"subPages,omitempty"`

	// Populated from the ETag response header, not the body.
	ETag string `json:"-"`
}

// PageCreateOrUpdate is the body of a PUT to the pages endpoint.
type PageCreateOrUpdate struct {
	Content string `json:"content"`
}

// PageMove is the body of a POST to the pagemoves endpoint.
type PageMove struct {
	Path     string `json:"path"`
	NewPath  string `json:"newPath"`
	NewOrder int    `json:"newOrder"`
}
