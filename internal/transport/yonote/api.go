package yonote

import (
	"context"

	"github.com/imwes/linkfinder/internal/domain"
)

// ListCollections returns every collection with its document tree.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	var resp collectionsListResponse
	if err := c.Do(ctx, OpCollectionsList, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DocumentInfo returns a document with its declared properties.
func (c *Client) DocumentInfo(ctx context.Context, id string) (Document, error) {
	var resp documentInfoResponse
	if err := c.Do(ctx, OpDocumentsInfo, map[string]string{"id": id}, &resp); err != nil {
		return Document{}, err
	}
	return resp.Data.Document, nil
}

// ListRows returns one page of database rows.
func (c *Client) ListRows(ctx context.Context, parentID string, limit, offset int) ([]domain.Row, error) {
	var resp rowsListResponse
	req := rowsListRequest{ParentDocumentID: parentID, Limit: limit, Offset: offset}
	if err := c.Do(ctx, OpRowsList, req, &resp); err != nil {
		return nil, err
	}

	rows := make([]domain.Row, len(resp.Data))
	for i, r := range resp.Data {
		rows[i] = domain.Row{Title: r.Title, Properties: r.Properties}
	}
	return rows, nil
}

// AuthInfo verifies the token. A rejected token yields a 401/403 RemoteCallError.
func (c *Client) AuthInfo(ctx context.Context) (AuthInfo, error) {
	var resp authInfoResponse
	if err := c.Do(ctx, OpAuthInfo, nil, &resp); err != nil {
		return AuthInfo{}, err
	}
	return AuthInfo{UserName: resp.Data.User.Name, TeamName: resp.Data.Team.Name}, nil
}

// HealthCheck verifies the document store is reachable with the configured token.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.AuthInfo(ctx)
	return err
}
