package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a single line in a cart: a product reference and a quantity
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart holds the pending items for one user. Exactly one cart exists per user
// (unique index on user); it is created lazily on first access.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// PopulatedCartItem is the response shape of a cart line with the referenced
// product document embedded.
type PopulatedCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// PopulatedCart is the response shape of a cart with its items populated
type PopulatedCart struct {
	ID     primitive.ObjectID  `json:"id,omitempty"`
	UserID primitive.ObjectID  `json:"user"`
	Items  []PopulatedCartItem `json:"items"`
}
