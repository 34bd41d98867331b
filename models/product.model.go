package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a marketplace listing owned by the user who created it
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ProductOwner is the owner reference populated with the username
type ProductOwner struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// PopulatedProduct is the response shape of a listing with its owner
// populated; the outer Owner shadows the embedded reference field.
type PopulatedProduct struct {
	Product
	Owner ProductOwner `json:"owner"`
}
