package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vendora/models"
)

// ReserveBooking atomically re-checks the availability window and inserts the
// booking within one session transaction, so two concurrent requests for the
// same slot cannot both pass the check. The returned conflict, when non-nil,
// is the booking already occupying the window.
func (repo *MongoBookingRepo) ReserveBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var conflict *models.Booking
	txnFn := func(sc mongo.SessionContext) error {
		filter := resourceFilter(booking.ResourceID())
		filter["status"] = viableStatus()
		filter["start_date"] = bson.M{"$lt": booking.EndDate}
		filter["end_date"] = bson.M{"$gt": booking.StartDate}

		var existing models.Booking
		err := repo.coll.FindOne(sc, filter).Decode(&existing)
		if err == nil {
			conflict = &existing
			return fmt.Errorf("slot already reserved by booking %s", existing.BookingID)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("conflict check failed: %w", err)
		}

		if _, err := repo.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if conflict != nil {
			return conflict, nil
		}
		return nil, fmt.Errorf("reservation transaction failed: %w", err)
	}

	return nil, nil
}

// ReleaseReservation deletes a reservation whose payment initiation failed, so
// the slot frees up immediately.
func (repo *MongoBookingRepo) ReleaseReservation(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error releasing reservation %s: %w", id, err)
	}
	return nil
}

// AttachTransactionReference sets the gateway transaction reference once,
// only while the booking is still pending without one.
func (repo *MongoBookingRepo) AttachTransactionReference(ctx context.Context, id, transactionRef string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                    id,
		"transaction_reference": bson.M{"$in": []interface{}{nil, ""}},
	}
	update := bson.M{"$set": bson.M{"transaction_reference": transactionRef}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("error attaching transaction reference to %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found or transaction reference already set", id)
	}
	return nil
}

func (repo *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&booking)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %w", err)
	}
	return &booking, nil
}

// GetByBookingID retrieves a booking by its human-readable identifier.
func (repo *MongoBookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return repo.findOne(ctx, bson.M{"booking_id": bookingID})
}

// GetByPaymentReference retrieves a booking by its locally generated payment reference.
func (repo *MongoBookingRepo) GetByPaymentReference(ctx context.Context, paymentRef string) (*models.Booking, error) {
	return repo.findOne(ctx, bson.M{"payment_reference": paymentRef})
}

// GetByTransactionReference retrieves a booking by the gateway transaction reference.
func (repo *MongoBookingRepo) GetByTransactionReference(ctx context.Context, transactionRef string) (*models.Booking, error) {
	return repo.findOne(ctx, bson.M{"transaction_reference": transactionRef})
}
