package main

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartStore is the persistence contract the engine depends on. The store
// holds one document per user and replaces the whole aggregate on Save
// (last-write-wins). It carries no business logic.
type CartStore interface {
	// Get returns (nil, nil) when the user has no cart.
	Get(ctx context.Context, userID string) (*Cart, error)
	// Create fails if a cart already exists for userID (unique index).
	Create(ctx context.Context, userID string, items []Item, totalPrice float64) (*Cart, error)
	// Save replaces the entire aggregate keyed by cart.UserID.
	Save(ctx context.Context, cart *Cart) (*Cart, error)
	// Delete returns the removed cart, or (nil, nil) if none existed.
	Delete(ctx context.Context, userID string) (*Cart, error)
}

type mongoCartStore struct {
	col *mongo.Collection
}

func NewCartStore(db *mongo.Database) *mongoCartStore {
	return &mongoCartStore{col: db.Collection("carts")}
}

// EnsureIndexes enforces one cart per user at the persistence layer.
func (s *mongoCartStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *mongoCartStore) Get(ctx context.Context, userID string) (*Cart, error) {
	var cart Cart
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *mongoCartStore) Create(ctx context.Context, userID string, items []Item, totalPrice float64) (*Cart, error) {
	cart := &Cart{UserID: userID, Items: items, TotalPrice: totalPrice}
	res, err := s.col.InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = oid
	}
	return cart, nil
}

func (s *mongoCartStore) Save(ctx context.Context, cart *Cart) (*Cart, error) {
	_, err := s.col.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *mongoCartStore) Delete(ctx context.Context, userID string) (*Cart, error) {
	var cart Cart
	err := s.col.FindOneAndDelete(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
