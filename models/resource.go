package models

import "time"

// Service is a vendor's catalog entry. This core only reads pricing and
// approval fields; listing CRUD lives outside it.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	VendorID        string    `bson:"vendor_id" json:"vendorId"`
	Name            string    `bson:"name" json:"name"`
	Category        string    `bson:"category" json:"category"`           // e.g. "hospitality"
	ServiceType     string    `bson:"service_type" json:"serviceType"`    // e.g. "apartment"
	Price           float64   `bson:"price" json:"price"`                 // Per duration unit (day)
	SecurityDeposit float64   `bson:"security_deposit" json:"securityDeposit"`
	Approved        bool      `bson:"approved" json:"approved"`
	Active          bool      `bson:"active" json:"active"`
	AverageRating   float64   `bson:"average_rating" json:"averageRating"`
	RatingCount     int       `bson:"rating_count" json:"ratingCount"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// VendorTypeDriver marks vendors that are directly bookable as drivers.
const VendorTypeDriver = "driver"

// Vendor is a marketplace vendor. Driver-type vendors are bookable resources
// in their own right; every vendor owns zero or more services.
type Vendor struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	Phone         string    `bson:"phone" json:"phone"`
	VendorType    string    `bson:"vendor_type" json:"vendorType"`
	Price         float64   `bson:"price,omitempty" json:"price,omitempty"` // Daily rate for drivers
	Approved      bool      `bson:"approved" json:"approved"`
	AverageRating float64   `bson:"average_rating" json:"averageRating"`
	RatingCount   int       `bson:"rating_count" json:"ratingCount"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// BookableResource is the resolved variant of a resource identifier: exactly
// one of Service or Vendor is set, discriminated by Kind.
type BookableResource struct {
	Kind    string // BookingTypeService or BookingTypeDriver
	Service *Service
	Vendor  *Vendor
}

// OwnerVendorID returns the vendor responsible for fulfilling a booking on
// this resource, used for routing and notifications.
func (r BookableResource) OwnerVendorID() string {
	if r.Kind == BookingTypeService {
		return r.Service.VendorID
	}
	return r.Vendor.ID
}
