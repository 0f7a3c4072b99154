package main

import "go.mongodb.org/mongo-driver/bson/primitive"

// Item is one product line inside a cart. SubTotalPrice is always
// Quantity * Price after an operation completes.
type Item struct {
	ProductID     string  `bson:"product_id" json:"productId"`
	Name          string  `bson:"name" json:"name"`
	Price         float64 `bson:"price" json:"price"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	SubTotalPrice float64 `bson:"sub_total_price" json:"subTotalPrice"`
}

// Cart is the per-user aggregate: one document per user, items kept in
// insertion order, at most one line per product id.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     string             `bson:"user_id" json:"userId"`
	Items      []Item             `bson:"items" json:"items"`
	TotalPrice float64            `bson:"total_price" json:"totalPrice"`
}

// ItemInput is the shape the controller accepts on add.
type ItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
