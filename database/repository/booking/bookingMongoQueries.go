package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vendora/models"
)

// FindConflict returns the first viable booking on the resource whose
// [start_date, end_date) window intersects the requested half-open window.
// Touching endpoints do not conflict.
func (repo *MongoBookingRepo) FindConflict(ctx context.Context, resourceID string, start, end time.Time) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := resourceFilter(resourceID)
	filter["status"] = viableStatus()
	filter["start_date"] = bson.M{"$lt": end}
	filter["end_date"] = bson.M{"$gt": start}

	var conflict models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&conflict)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conflict query failed: %w", err)
	}
	return &conflict, nil
}

// ListByClient returns a client's bookings, newest first.
func (repo *MongoBookingRepo) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"client_id": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// CompleteElapsed bulk-transitions every upcoming or in-progress booking whose
// end date has passed into completed. Re-running with the same clock only
// matches bookings not yet completed, so the sweep is idempotent.
func (repo *MongoBookingRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":   bson.M{"$in": []string{models.BookingStatusUpcoming, models.BookingStatusInProgress}},
		"end_date": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingStatusCompleted,
		"completed_at": now,
	}}

	res, err := repo.coll.UpdateMany(ctxWithTimeout, filter, update)
	if err != nil {
		return 0, fmt.Errorf("completion sweep failed: %w", err)
	}
	return res.ModifiedCount, nil
}

// AverageRating recomputes the arithmetic mean over all rated bookings that
// reference the given field. Full recompute rather than incremental: costlier
// but immune to drift.
func (repo *MongoBookingRepo) AverageRating(ctx context.Context, refField, refID string) (float64, int, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{refField: refID, "rated": true}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := repo.coll.Aggregate(ctxWithTimeout, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("rating aggregation failed: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var result []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctxWithTimeout, &result); err != nil {
		return 0, 0, fmt.Errorf("rating aggregation decode failed: %w", err)
	}
	if len(result) == 0 {
		return 0, 0, nil
	}
	return result[0].Avg, result[0].Count, nil
}
