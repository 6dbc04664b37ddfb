package catalogRepo

import (
	"context"

	"vendora/models"
)

// CatalogRepository reads bookable resources (services and driver vendors)
// and writes back recomputed rating aggregates. Listing CRUD is owned by the
// vendor-facing surface, not this core.
type CatalogRepository interface {
	// ResolveResource resolves an identifier into its resource variant,
	// probing services first, then driver vendors.
	ResolveResource(ctx context.Context, resourceID string) (*models.BookableResource, error)
	GetVendorByID(ctx context.Context, vendorID string) (*models.Vendor, error)
	SetServiceRating(ctx context.Context, serviceID string, avg float64, count int) error
	SetVendorRating(ctx context.Context, vendorID string, avg float64, count int) error
}
