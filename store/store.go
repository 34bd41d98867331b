// Package store defines the persistence contracts used by the controllers and
// their MongoDB implementation. An in-memory implementation backs the tests.
package store

import (
	"context"
	"errors"

	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("store: duplicate key")
)

// UserUpdate carries the mutable user fields; nil means leave unchanged.
// Password must already be hashed by the caller.
type UserUpdate struct {
	Username *string
	Password *string
}

// ProductUpdate carries the mutable product fields; nil means leave unchanged
type ProductUpdate struct {
	Title       *string
	Category    *string
	Description *string
	Price       *float64
	Image       *string
}

// ProductFilter describes a product search: optional case-insensitive
// free-text match over title/description, optional exact category, and
// offset pagination.
type ProductFilter struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// UserStore persists users. Create returns ErrDuplicate if the email is
// already registered.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*models.User, error)
}

// ProductStore persists products. Search returns the page of matching
// products along with the total match count independent of the page window.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CartStore persists carts, at most one per user (unique index on user)
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	SaveItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error
}

// OrderStore persists orders. FindByUser returns them newest first.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
}

// Stores bundles the four resource stores for handler wiring
type Stores struct {
	Users    UserStore
	Products ProductStore
	Carts    CartStore
	Orders   OrderStore
}
