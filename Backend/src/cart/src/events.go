package main

type CartItemAdded struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartItemRemoved struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type CartQuantityUpdated struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartDeleted struct {
	UserID string `json:"user_id"`
}
