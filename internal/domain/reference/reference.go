// Package reference projects sub-database rows into document links.
package reference

import (
	"strings"

	"github.com/imwes/linkfinder/internal/domain"
)

// Fields names the properties a reference is read from.
type Fields struct {
	Title string // fallback when the row has no title
	URL   string
}

// DefaultFields returns the property labels used by the monitoring databases.
func DefaultFields() Fields {
	return Fields{
		Title: "Название",
		URL:   "Ссылка на Яндекс диск",
	}
}

// Reference is a link to one matching document.
// Title is already escaped for markdown; URL is kept verbatim.
type Reference struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// String formats the reference as "[title](url)", a bare title or a bare url.
func (r Reference) String() string {
	switch {
	case r.Title != "" && r.URL != "":
		return "[" + r.Title + "](" + r.URL + ")"
	case r.Title != "":
		return r.Title
	default:
		return r.URL
	}
}

var titleEscaper = strings.NewReplacer(
	"-", `\-`,
	"(", `\(`,
	")", `\)`,
	".", `\.`,
	",", `\,`,
)

// Escape prefixes each of - ( ) . , with a backslash.
func Escape(s string) string {
	return titleEscaper.Replace(s)
}

// Project maps a row to a reference. Returns false when both title and url are empty.
func Project(row domain.Row, props domain.PropertyMap, fields Fields) (Reference, bool) {
	title := row.Title
	if title == "" {
		title = stringProperty(row, props, fields.Title)
	}

	url := ""
	switch v := property(row, props, fields.URL).(type) {
	case string:
		url = v
	case map[string]any:
		url, _ = v["url"].(string)
	}

	if title == "" && url == "" {
		return Reference{}, false
	}
	return Reference{Title: Escape(title), URL: url}, true
}

func property(row domain.Row, props domain.PropertyMap, label string) any {
	id, ok := props[label]
	if !ok {
		return nil
	}
	return row.Properties[id]
}

func stringProperty(row domain.Row, props domain.PropertyMap, label string) string {
	s, _ := property(row, props, label).(string)
	return s
}
