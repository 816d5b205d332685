// Package entity defines data models for the foodcourt storefront.
package entity

import "time"

// MenuItem is a dish offered by the restaurant. Prices are whole rupees.
type MenuItem struct {
	Id          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       int       `json:"price" bson:"price"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Image       string    `json:"image" bson:"image"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
