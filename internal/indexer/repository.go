package indexer

import "context"

type Repository interface {
	// LoadDocument builds the search document of a product, nil if the
	// product no longer exists.
	LoadDocument(ctx context.Context, tenantID, productID string) (*Document, error)
}
