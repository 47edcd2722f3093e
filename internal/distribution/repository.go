package distribution

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/distribution/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	// UpdateSortOrders writes each item's sort order to the site's SiteProduct
	// row and, when propagate is set, to the product itself. Items without a
	// row for the site are skipped. It returns the number of rows touched.
	UpdateSortOrders(ctx context.Context, p Policy, items []dto.SortOrderItem, propagate bool) (int, error)
	SetVisibility(ctx context.Context, p Policy, productIDs []string, visible bool) (int, error)
	UpsertOverride(ctx context.Context, o *dto.Override) (*model.SiteProduct, error)
	FindSiteProduct(ctx context.Context, siteID, productID string) (*model.SiteProduct, error)
	ProductExists(ctx context.Context, p Policy, productID string) (bool, error)
}
