// Package rows pages through a sub-database and keeps the rows matching a tag-id set.
package rows

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// rowLister is the consumer interface for the document store (ISP).
type rowLister interface {
	ListRows(ctx context.Context, parentID string, limit, offset int) ([]domain.Row, error)
}

// Fetcher aggregates rows across pages.
type Fetcher struct {
	client   rowLister
	pageSize int
	fields   reference.Fields
}

// New creates a row fetcher. A non-positive pageSize falls back to DefaultPageSize.
func New(client rowLister, pageSize int, fields reference.Fields) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{client: client, pageSize: pageSize, fields: fields}
}

// Fetch returns references for every row of the sub-database whose tag ids
// intersect wanted. An empty wanted set keeps every row.
// Any failing page fails the whole sub-database.
func (f *Fetcher) Fetch(
	ctx context.Context,
	id string,
	props domain.PropertyMap,
	wanted map[string]struct{},
) ([]reference.Reference, error) {
	var refs []reference.Reference

	for offset := 0; ; offset += f.pageSize {
		page, err := f.client.ListRows(ctx, id, f.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list rows of %s at offset %d: %w", id, offset, err)
		}

		for _, row := range page {
			if !Matches(TagIDs(row), wanted) {
				continue
			}
			if ref, ok := reference.Project(row, props, f.fields); ok {
				refs = append(refs, ref)
			}
		}

		if len(page) < f.pageSize {
			return refs, nil
		}
	}
}

// TagIDs flattens the row's list-valued properties into one set.
// Only lists made entirely of strings and integers contribute; integers are
// keyed by their decimal text.
func TagIDs(row domain.Row) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, v := range row.Properties {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		values, ok := scalarList(list)
		if !ok {
			continue
		}
		for _, s := range values {
			ids[s] = struct{}{}
		}
	}
	return ids
}

func scalarList(list []any) ([]string, bool) {
	out := make([]string, 0, len(list))
	for _, e := range list {
		switch v := e.(type) {
		case string:
			out = append(out, v)
		case json.Number:
			n, err := strconv.ParseInt(v.String(), 10, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, strconv.FormatInt(n, 10))
		default:
			return nil, false
		}
	}
	return out, true
}

// Matches reports whether wanted is empty or shares an element with have.
func Matches(have, wanted map[string]struct{}) bool {
	if len(wanted) == 0 {
		return true
	}
	for id := range wanted {
		if _, ok := have[id]; ok {
			return true
		}
	}
	return false
}
