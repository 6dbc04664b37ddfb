package booking

import (
	"context"
	"errors"

	catalogRepo "vendora/database/repository/catalog"
	"vendora/models"
)

// Apartment-type services carry a refundable security deposit on top of the
// per-day price.
const serviceTypeApartment = "apartment"

// ExpectedPrice computes the total price for booking a resolved resource for
// the given duration. Deterministic and pure: booking records never re-derive
// it after creation.
func ExpectedPrice(resource *models.BookableResource, duration int) float64 {
	switch resource.Kind {
	case models.BookingTypeService:
		svc := resource.Service
		total := svc.Price * float64(duration)
		if svc.ServiceType == serviceTypeApartment {
			total += svc.SecurityDeposit
		}
		return total
	default:
		return resource.Vendor.Price * float64(duration)
	}
}

// resolveAndPrice resolves the resource and enforces the price-match
// invariant against the caller-submitted retail price.
func (svc *DefaultBookingService) resolveAndPrice(ctx context.Context, resourceID string, duration int, retailPrice float64) (*models.BookableResource, error) {
	resource, err := svc.Catalog.ResolveResource(ctx, resourceID)
	if err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrResourceNotFound):
			return nil, &ResourceNotFoundError{ResourceID: resourceID}
		case errors.Is(err, catalogRepo.ErrNotBookableVendor):
			return nil, &InvalidResourceTypeError{ResourceID: resourceID}
		default:
			return nil, err
		}
	}

	if !resourceIsBookable(resource) {
		return nil, &ResourceNotFoundError{ResourceID: resourceID}
	}

	expected := ExpectedPrice(resource, duration)
	if expected != retailPrice {
		return nil, &PricingMismatchError{Expected: expected, Submitted: retailPrice}
	}
	return resource, nil
}

// resourceIsBookable applies the approval/active gates. Unapproved or
// deactivated listings are indistinguishable from absent ones.
func resourceIsBookable(resource *models.BookableResource) bool {
	if resource.Kind == models.BookingTypeService {
		return resource.Service.Approved && resource.Service.Active
	}
	return resource.Vendor.Approved
}
