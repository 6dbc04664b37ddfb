package clientRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vendora/database"
	"vendora/models"
)

// ErrClientNotFound means no client record matched the lookup.
var ErrClientNotFound = errors.New("client not found")

// MongoClientRepo is the MongoDB implementation of ClientRepository.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo returns a repository bound to the clients collection.
func NewMongoClientRepo() *MongoClientRepo {
	return &MongoClientRepo{
		coll: database.DB().Collection("clients"),
	}
}

// EnsureIndexes creates the unique email index on the clients collection.
func (repo *MongoClientRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetName("phone_idx")},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create client indexes: %w", err)
	}
	return nil
}

func (repo *MongoClientRepo) findOne(ctx context.Context, filter bson.M) (*models.Client, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var client models.Client
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client lookup failed: %w", err)
	}
	return &client, nil
}

// GetByID retrieves a client by id.
func (repo *MongoClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return repo.findOne(ctx, bson.M{"id": id})
}

// GetByEmail retrieves a client by email.
func (repo *MongoClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

// GetByPhone retrieves a client by phone number.
func (repo *MongoClientRepo) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return repo.findOne(ctx, bson.M{"phone": phone})
}

// Create inserts a new client record.
func (repo *MongoClientRepo) Create(ctx context.Context, client *models.Client) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, client); err != nil {
		return fmt.Errorf("error creating client: %w", err)
	}
	return nil
}

// IncrementBookingStats atomically bumps the booking counter and stamps the
// last-booking time.
func (repo *MongoClientRepo) IncrementBookingStats(ctx context.Context, clientID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"booking_count": 1},
		"$set": bson.M{"last_booking_at": time.Now()},
	}
	_, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": clientID}, update)
	if err != nil {
		return fmt.Errorf("error incrementing booking stats for %s: %w", clientID, err)
	}
	return nil
}
