package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process implementation of the store interfaces with the
// same contracts as the Mongo one (unique email, one cart per user, newest
// first orders). It backs the handler tests.
type Memory struct {
	mu       sync.Mutex
	users    []models.User
	products []models.Product
	carts    []models.Cart
	orders   []models.Order
}

// NewMemory returns an empty in-memory store bundle
func NewMemory() (*Memory, Stores) {
	m := &Memory{}
	return m, Stores{
		Users:    (*memUsers)(m),
		Products: (*memProducts)(m),
		Carts:    (*memCarts)(m),
		Orders:   (*memOrders)(m),
	}
}

type memUsers Memory

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	s.users = append(s.users, *user)
	return nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		for _, u := range s.users {
			if u.ID == id {
				found[id] = u
				break
			}
		}
	}
	return found, nil
}

func (s *memUsers) Update(_ context.Context, id primitive.ObjectID, update UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			if update.Username != nil {
				s.users[i].Username = *update.Username
			}
			if update.Password != nil {
				s.users[i].Password = *update.Password
			}
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

type memProducts Memory

func (s *memProducts) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = primitive.NewObjectID()
	s.products = append(s.products, *product)
	return nil
}

func (s *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := make(map[primitive.ObjectID]models.Product, len(ids))
	for _, id := range ids {
		for _, p := range s.products {
			if p.ID == id {
				found[id] = p
				break
			}
		}
	}
	return found, nil
}

func (s *memProducts) FindByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := []models.Product{}
	for _, p := range s.products {
		if p.Owner == owner {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *memProducts) Search(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(filter.Query)
	matching := []models.Product{}
	for _, p := range s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		matching = append(matching, p)
	}
	total := int64(len(matching))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matching) {
		return []models.Product{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[start:end], total, nil
}

func (s *memProducts) Update(_ context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			if update.Title != nil {
				s.products[i].Title = *update.Title
			}
			if update.Category != nil {
				s.products[i].Category = *update.Category
			}
			if update.Description != nil {
				s.products[i].Description = *update.Description
			}
			if update.Price != nil {
				s.products[i].Price = *update.Price
			}
			if update.Image != nil {
				s.products[i].Image = *update.Image
			}
			s.products[i].UpdatedAt = time.Now().UTC()
			product := s.products[i]
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type memCarts Memory

func (s *memCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if c.UserID == userID {
			cart := c
			cart.Items = append([]models.CartItem{}, c.Items...)
			return &cart, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCarts) Create(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if c.UserID == cart.UserID {
			return ErrDuplicate
		}
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.ID = primitive.NewObjectID()
	s.carts = append(s.carts, *cart)
	return nil
}

func (s *memCarts) SaveItems(_ context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if items == nil {
		items = []models.CartItem{}
	}
	for i := range s.carts {
		if s.carts[i].ID == cartID {
			s.carts[i].Items = append([]models.CartItem{}, items...)
			return nil
		}
	}
	return ErrNotFound
}

type memOrders Memory

func (s *memOrders) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
