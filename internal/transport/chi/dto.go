package chi

// ErrorCode is a machine-readable error kind.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	ErrorCodeDocumentStoreError ErrorCode = "document_store_error"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MonthListResponse is the body of GET /api/v1/months.
type MonthListResponse struct {
	Items []MonthItem `json:"items"`
	Total int         `json:"total"`
}

// MonthItem is one month sub-database.
type MonthItem struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// SearchRequest is the body of POST /api/v1/search. Empty months means every month.
type SearchRequest struct {
	Months []string            `json:"months,omitempty"`
	Tags   map[string][]string `json:"tags,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Items []ReferenceItem `json:"items"`
	Total int             `json:"total"`
}

// ReferenceItem is one found document.
type ReferenceItem struct {
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
	Markdown string `json:"markdown"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
