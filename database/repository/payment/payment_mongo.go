package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"sudzy/database"
	"sudzy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.MongoClient.Database("sudzy")
	return &MongoPaymentRepo{
		coll: db.Collection("payments"),
	}
}

func (repo *MongoPaymentRepo) Create(payment *models.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

func (repo *MongoPaymentRepo) GetByID(id string) (*models.Payment, error) {
	return repo.findOne(bson.M{"id": id})
}

func (repo *MongoPaymentRepo) GetByBookingID(bookingID string) (*models.Payment, error) {
	return repo.findOne(bson.M{"booking_id": bookingID})
}

func (repo *MongoPaymentRepo) GetByIntentID(intentID string) (*models.Payment, error) {
	return repo.findOne(bson.M{"stripe_payment_intent_id": intentID})
}

func (repo *MongoPaymentRepo) findOne(filter bson.M) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var payment models.Payment
	if err := repo.coll.FindOne(ctx, filter).Decode(&payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching payment: %w", err)
	}
	return &payment, nil
}

func (repo *MongoPaymentRepo) Update(payment *models.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payment.UpdatedAt = time.Now()
	filter := bson.M{"id": payment.ID}
	update := bson.M{"$set": payment}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating payment %s: %w", payment.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("payment with id %s not found", payment.ID)
	}
	return nil
}
