package linkfinder

import (
	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
)

// MonthCategory is the Selection key holding month labels.
const MonthCategory = domain.MonthCategory

// Selection maps a category to its chosen labels. Months go under MonthCategory.
type Selection map[string][]string

func (s Selection) state() *selection.State {
	return selection.FromSnapshot(s)
}

// Reference is a link to one matching document.
type Reference struct {
	Title    string // markdown-escaped
	URL      string
	Markdown string // "[title](url)", a bare title or a bare url
}

func referenceFromDomain(r reference.Reference) Reference {
	return Reference{Title: r.Title, URL: r.URL, Markdown: r.String()}
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
