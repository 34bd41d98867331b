package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a frozen order line: the price is the product's price at
// checkout time and never changes afterwards.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Order is an immutable snapshot created at checkout
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// PopulatedOrderItem embeds the current product document next to the frozen
// quantity and price for the order detail view.
type PopulatedOrderItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// PopulatedOrder is the detail response shape of an order
type PopulatedOrder struct {
	ID        primitive.ObjectID   `json:"id,omitempty"`
	UserID    primitive.ObjectID   `json:"user"`
	Items     []PopulatedOrderItem `json:"items"`
	Total     float64              `json:"total"`
	CreatedAt time.Time            `json:"createdAt"`
}
