package models

import "time"

// Dish is a menu item owned by the remote service. The JSON names follow
// the remote API.
type Dish struct {
	ID          string  `json:"_id" validate:"required"`
	Name        string  `json:"nombre"`
	CuisineType string  `json:"tipoCocina"`
	Ingredients string  `json:"ingredientes"`
	Price       float64 `json:"precio"`
	UserID      string  `json:"userId,omitempty"`
}

// DishInput is the create payload without a server identifier.
type DishInput struct {
	Name        string  `json:"nombre"`
	CuisineType string  `json:"tipoCocina"`
	Ingredients string  `json:"ingredientes"`
	Price       float64 `json:"precio"`
	UserID      string  `json:"userId"`
}

// PendingDish is a DishInput kept locally after a failed create.
type PendingDish struct {
	ID             int64     `json:"id"`
	Dish           DishInput `json:"dish"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	FailedAt       time.Time `json:"failed_at"`
	Reason         string    `json:"reason,omitempty"`
}
