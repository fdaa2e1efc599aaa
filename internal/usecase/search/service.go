package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	"github.com/imwes/linkfinder/internal/logger"
	"github.com/imwes/linkfinder/internal/metrics"
)

// Service filters month sub-databases by a selection.
type Service struct {
	catalog CatalogResolver
	schemas SchemaResolver
	rows    RowFetcher
}

// New creates a search service.
func New(catalog CatalogResolver, schemas SchemaResolver, rows RowFetcher) *Service {
	return &Service{catalog: catalog, schemas: schemas, rows: rows}
}

// Catalog returns the month catalog. The map is empty, never nil, on failure.
func (s *Service) Catalog(ctx context.Context) (domain.Catalog, error) {
	c, err := s.catalog.Resolve(ctx)
	if err != nil {
		if c == nil {
			c = domain.Catalog{}
		}
		return c, fmt.Errorf("resolve catalog: %w", err)
	}
	return c, nil
}

// TagMenu returns the tag schema of the first month, in ascending order,
// whose schema is non-empty. Empty when no month has tags.
func (s *Service) TagMenu(ctx context.Context, catalog domain.Catalog) domain.TagSchema {
	log := logger.FromContext(ctx)
	for _, month := range catalog.Months() {
		schema, err := s.schemas.Resolve(ctx, catalog[month])
		if err != nil && !errors.Is(err, domain.ErrSchemaUnavailable) {
			log.Warn("Failed to resolve schema for tag menu", zap.String("month", month), zap.Error(err))
			continue
		}
		if len(schema.Tags) > 0 {
			return schema.Tags
		}
	}
	return domain.TagSchema{}
}

// Search returns the references of every visited month matching the selection,
// concatenated in ascending month order. A month is visited when it is selected
// or when no month is selected. Failing months are logged and skipped.
func (s *Service) Search(ctx context.Context, catalog domain.Catalog, sel *selection.State) []reference.Reference {
	log := logger.FromContext(ctx)
	pairs := sel.Pairs()
	anyMonth := sel.IsEmpty(domain.MonthCategory)

	var refs []reference.Reference
	for _, month := range catalog.Months() {
		if !anyMonth && !sel.Has(domain.MonthCategory, month) {
			continue
		}
		mlog := log.With(zap.String("month", month), zap.String("database_id", catalog[month]))

		schema, err := s.schemas.Resolve(ctx, catalog[month])
		if err != nil {
			if !errors.Is(err, domain.ErrSchemaUnavailable) {
				mlog.Warn("Skipping month: schema unavailable", zap.Error(err))
				metrics.SearchMonthFailuresTotal.WithLabelValues("schema").Inc()
				continue
			}
			mlog.Debug("Month has no properties", zap.Error(err))
		}

		wanted, skipped := translate(schema.Tags, pairs)
		for _, p := range skipped {
			mlog.Debug("Tag not present in month",
				zap.String("category", p.Category), zap.String("label", p.Label))
		}
		if len(pairs) > 0 && len(wanted) == 0 {
			mlog.Debug("No selected tag applies to month")
			continue
		}

		found, err := s.rows.Fetch(ctx, catalog[month], schema.Properties, wanted)
		if err != nil {
			mlog.Warn("Skipping month: rows unavailable", zap.Error(err))
			metrics.SearchMonthFailuresTotal.WithLabelValues("rows").Inc()
			continue
		}
		mlog.Debug("Month searched", zap.Int("references", len(found)))
		refs = append(refs, found...)
	}

	metrics.SearchReferences.Observe(float64(len(refs)))
	return refs
}

// translate maps (category, label) pairs onto option ids, returning the pairs
// the schema does not know.
func translate(tags domain.TagSchema, pairs []selection.Pair) (map[string]struct{}, []selection.Pair) {
	wanted := make(map[string]struct{}, len(pairs))
	var skipped []selection.Pair
	for _, p := range pairs {
		id, ok := tags.OptionID(p.Category, p.Label)
		if !ok {
			skipped = append(skipped, p)
			continue
		}
		wanted[id] = struct{}{}
	}
	return wanted, skipped
}
