package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vendora/database"
	"vendora/models"
)

var (
	// ErrResourceNotFound means neither a service nor a vendor matched the id.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNotBookableVendor means the id matched a vendor that is not a driver.
	ErrNotBookableVendor = errors.New("vendor is not bookable as a resource")
)

// MongoCatalogRepo is the MongoDB implementation of CatalogRepository.
type MongoCatalogRepo struct {
	serviceColl *mongo.Collection
	vendorColl  *mongo.Collection
}

// NewMongoCatalogRepo returns a repository bound to the services and vendors
// collections.
func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.DB()
	return &MongoCatalogRepo{
		serviceColl: db.Collection("services"),
		vendorColl:  db.Collection("vendors"),
	}
}

// ResolveResource probes the services collection first, then vendors. A
// matching non-driver vendor is an error: only drivers are directly bookable.
func (repo *MongoCatalogRepo) ResolveResource(ctx context.Context, resourceID string) (*models.BookableResource, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	err := repo.serviceColl.FindOne(ctxWithTimeout, bson.M{"id": resourceID}).Decode(&service)
	if err == nil {
		return &models.BookableResource{Kind: models.BookingTypeService, Service: &service}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("service lookup failed: %w", err)
	}

	var vendor models.Vendor
	err = repo.vendorColl.FindOne(ctxWithTimeout, bson.M{"id": resourceID}).Decode(&vendor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vendor lookup failed: %w", err)
	}
	if vendor.VendorType != models.VendorTypeDriver {
		return nil, ErrNotBookableVendor
	}
	return &models.BookableResource{Kind: models.BookingTypeDriver, Vendor: &vendor}, nil
}

// GetVendorByID retrieves a vendor record.
func (repo *MongoCatalogRepo) GetVendorByID(ctx context.Context, vendorID string) (*models.Vendor, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var vendor models.Vendor
	if err := repo.vendorColl.FindOne(ctxWithTimeout, bson.M{"id": vendorID}).Decode(&vendor); err != nil {
		return nil, fmt.Errorf("vendor not found: %w", err)
	}
	return &vendor, nil
}

// SetServiceRating stores a recomputed rating aggregate on a service.
func (repo *MongoCatalogRepo) SetServiceRating(ctx context.Context, serviceID string, avg float64, count int) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"average_rating": avg, "rating_count": count}}
	_, err := repo.serviceColl.UpdateOne(ctxWithTimeout, bson.M{"id": serviceID}, update)
	if err != nil {
		return fmt.Errorf("error updating service rating %s: %w", serviceID, err)
	}
	return nil
}

// SetVendorRating stores a recomputed rating aggregate on a vendor.
func (repo *MongoCatalogRepo) SetVendorRating(ctx context.Context, vendorID string, avg float64, count int) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"average_rating": avg, "rating_count": count}}
	_, err := repo.vendorColl.UpdateOne(ctxWithTimeout, bson.M{"id": vendorID}, update)
	if err != nil {
		return fmt.Errorf("error updating vendor rating %s: %w", vendorID, err)
	}
	return nil
}
