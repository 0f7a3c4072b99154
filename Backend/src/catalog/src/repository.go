package main

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository reads return (nil, nil) for a missing or malformed id, so
// the controller owns the not-found translation. Filtering happens in
// the store, not in memory.
type Repository interface {
	All(ctx context.Context) ([]*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Filter(ctx context.Context, search, category string) ([]*Product, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
}

type mongoRepo struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) *mongoRepo {
	return &mongoRepo{col: db.Collection("products")}
}

func (r *mongoRepo) All(ctx context.Context) ([]*Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRepo) Get(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var p Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Filter matches search against name and description, and category
// against category, all case-insensitive, combined with $or.
func (r *mongoRepo) Filter(ctx context.Context, search, category string) ([]*Product, error) {
	var queries []bson.M
	if search != "" {
		queries = append(queries,
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": search, "$options": "i"}},
		)
	}
	if category != "" {
		queries = append(queries, bson.M{"category": bson.M{"$regex": category, "$options": "i"}})
	}
	if len(queries) == 0 {
		return r.All(ctx)
	}
	return r.find(ctx, bson.M{"$or": queries})
}

func (r *mongoRepo) find(ctx context.Context, filter bson.M) ([]*Product, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Product
	for cur.Next(ctx) {
		var p Product
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *mongoRepo) Create(ctx context.Context, input ProductInput) (*Product, error) {
	p := &Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
	}
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return p, nil
}

func (r *mongoRepo) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	update := bson.M{"$set": bson.M{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"category":    input.Category,
	}}
	var p Product
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var p Product
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
