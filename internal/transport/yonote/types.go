package yonote

// Collection is a top-level collection with its document tree.
type Collection struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Documents []DocumentNode `json:"documents"`
}

// DocumentNode is a node of a collection's document tree.
type DocumentNode struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	URL      string         `json:"url,omitempty"`
	Children []DocumentNode `json:"children"`
}

// Document is the documents.info payload. Databases declare their columns as properties.
type Document struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Properties []Property `json:"properties"`
}

// Property is a database column. Select-like columns carry options.
type Property struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Type    string   `json:"type,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// Option is one selectable value of a property.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// AuthInfo describes the token owner.
type AuthInfo struct {
	UserName string
	TeamName string
}

type collectionsListResponse struct {
	Data []Collection `json:"data"`
}

type documentInfoResponse struct {
	Data struct {
		Document Document `json:"document"`
	} `json:"data"`
}

type rowsListRequest struct {
	ParentDocumentID string `json:"parentDocumentId"`
	Limit            int    `json:"limit"`
	Offset           int    `json:"offset"`
}

type rawRow struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Properties map[string]any `json:"properties"`
}

type rowsListResponse struct {
	Data []rawRow `json:"data"`
}

type authInfoResponse struct {
	Data struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Team struct {
			Name string `json:"name"`
		} `json:"team"`
	} `json:"data"`
}
