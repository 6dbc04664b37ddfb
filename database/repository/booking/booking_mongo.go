package bookingRepo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vendora/database"
	"vendora/models"
)

// MongoBookingRepo is the MongoDB implementation of BookingRepository.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a repository bound to the bookings collection.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}

// resourceFilter matches bookings occupying the given resource. Service
// bookings carry the resource in service_id; driver bookings in vendor_id.
func resourceFilter(resourceID string) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"booking_type": models.BookingTypeService, "service_id": resourceID},
			{"booking_type": models.BookingTypeDriver, "vendor_id": resourceID},
		},
	}
}

// viableStatus matches bookings still occupying their slot; cancelled/failed
// bookings free it.
func viableStatus() bson.M {
	return bson.M{"$nin": models.NonViableStatuses()}
}
