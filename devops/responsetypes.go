package devops

// PageMoveResponse is returned by the pagemoves endpoint.
type PageMoveResponse struct {
	Path     string `json:"path"`
	NewPath  string `json:"newPath"`
	NewOrder int    `json:"newOrder"`

	Page Page `json:"page"`
}

// errorResponse is the JSON body Azure DevOps sends alongside a failing status code.
type errorResponse struct {
	ID        string `json:"$id"`
	Message   string `json:"message"`
	TypeName  string `json:"typeName"`
	TypeKey   string `json:"typeKey"`
	ErrorCode int    `json:"errorCode"`
}
