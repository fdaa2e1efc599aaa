package search

import (
	"context"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
)

// CatalogResolver lists the month sub-databases.
type CatalogResolver interface {
	Resolve(ctx context.Context) (domain.Catalog, error)
}

// SchemaResolver resolves the tag schema and property map of a sub-database.
type SchemaResolver interface {
	Resolve(ctx context.Context, id string) (domain.Schema, error)
}

// RowFetcher collects references for the rows matching a tag-id set.
type RowFetcher interface {
	Fetch(
		ctx context.Context, id string,
		props domain.PropertyMap, wanted map[string]struct{},
	) ([]reference.Reference, error)
}
