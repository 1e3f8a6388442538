package devops

// APIVersion is the wiki REST API version every request pins.
const APIVersion = "6.0"

// RecursionFull asks the pages endpoint for the whole subtree.
const RecursionFull = "Full"

// PageQuery defines the query parameters for:
// https://learn.microsoft.com/en-us/rest/api/azure/devops/wiki/pages/get-page?view=azure-devops-rest-6.0
//
// The same parameters (minus recursion) address a page for create-or-update:
// https://learn.microsoft.com/en-us/rest/api/azure/devops/wiki/pages/create-or-update?view=azure-devops-rest-6.0
type PageQuery struct {
	APIVersion string `url:"api-version"`

	// Wiki page path, e.g. /docs/Classes.  Required.
	Path string `url:"path"`

	// None, OneLevel, OneLevelPlusNestedEmptyFolders, Full
	RecursionLevel string `url:"recursionLevel,omitempty"`

	IncludeContent bool `url:"includeContent,omitempty"`
}

// PageMovesQuery defines the query parameters for:
// https://learn.microsoft.com/en-us/rest/api/azure/devops/wiki/page-moves/create?view=azure-devops-rest-6.0
type PageMovesQuery struct {
	APIVersion string `url:"api-version"`
}
