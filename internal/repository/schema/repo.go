// Package schema extracts the tag taxonomy and property map of a sub-database.
package schema

import (
	"context"
	"fmt"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/transport/yonote"
)

// documentReader is the consumer interface for the document store (ISP).
type documentReader interface {
	DocumentInfo(ctx context.Context, id string) (yonote.Document, error)
}

// Repo resolves sub-database schemas from documents.info.
type Repo struct {
	client documentReader
}

// New creates a schema resolver.
func New(client documentReader) *Repo {
	return &Repo{client: client}
}

// Resolve returns the schema of a sub-database. The returned maps are never nil;
// on failure both are empty and the error is a RemoteCallError or
// domain.ErrSchemaUnavailable.
func (r *Repo) Resolve(ctx context.Context, id string) (domain.Schema, error) {
	doc, err := r.client.DocumentInfo(ctx, id)
	if err != nil {
		return domain.EmptySchema(), fmt.Errorf("document info %s: %w", id, err)
	}
	if len(doc.Properties) == 0 {
		return domain.EmptySchema(), fmt.Errorf("document %s has no properties: %w", id, domain.ErrSchemaUnavailable)
	}
	return FromProperties(doc.Properties), nil
}

// FromProperties builds a schema. Every property enters the property map;
// only properties with at least one option enter the tag schema.
// Duplicate labels resolve last-write-wins.
func FromProperties(props []yonote.Property) domain.Schema {
	s := domain.EmptySchema()
	for _, p := range props {
		s.Properties[p.Title] = p.ID
		if len(p.Options) == 0 {
			continue
		}
		options := make(map[string]string, len(p.Options))
		for _, o := range p.Options {
			options[o.Label] = o.ID
		}
		s.Tags[p.Title] = options
	}
	return s
}
