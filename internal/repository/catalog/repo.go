// Package catalog discovers the per-month sub-databases of the document store.
package catalog

import (
	"context"
	"fmt"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/transport/yonote"
)

// collectionLister is the consumer interface for the document store (ISP).
type collectionLister interface {
	ListCollections(ctx context.Context) ([]yonote.Collection, error)
}

// Repo resolves the month catalog under a fixed root document.
type Repo struct {
	client    collectionLister
	rootTitle string
}

// New creates a catalog resolver. rootTitle must match the root document title exactly.
func New(client collectionLister, rootTitle string) *Repo {
	return &Repo{client: client, rootTitle: rootTitle}
}

// Resolve returns month label -> sub-database id for the children of the root document.
// The catalog is never nil: on failure it is empty and the error says why
// (a RemoteCallError, or domain.ErrCatalogUnavailable when the root is missing).
func (r *Repo) Resolve(ctx context.Context) (domain.Catalog, error) {
	cols, err := r.client.ListCollections(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list collections: %w", err)
	}

	for _, col := range cols {
		if root, ok := findNode(col.Documents, r.rootTitle); ok {
			catalog := make(domain.Catalog, len(root.Children))
			for _, child := range root.Children {
				catalog[child.Title] = child.ID
			}
			return catalog, nil
		}
	}

	return domain.Catalog{}, fmt.Errorf("root document %q: %w", r.rootTitle, domain.ErrCatalogUnavailable)
}

// findNode walks the tree depth-first and returns the first node titled title.
func findNode(nodes []yonote.DocumentNode, title string) (yonote.DocumentNode, bool) {
	for _, n := range nodes {
		if n.Title == title {
			return n, true
		}
		if found, ok := findNode(n.Children, title); ok {
			return found, true
		}
	}
	return yonote.DocumentNode{}, false
}
