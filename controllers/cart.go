package controllers

import (
	"context"
	"errors"
	"net/http"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
	"go-marketplace/utils"
	"go-marketplace/validation"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles cart requests
type CartController struct {
	Carts    store.CartStore
	Products store.ProductStore
}

// NewCartController creates a new CartController
func NewCartController(carts store.CartStore, products store.ProductStore) *CartController {
	return &CartController{Carts: carts, Products: products}
}

// GetCart retrieves the user's cart, creating an empty one on first access
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.loadOrCreateCart(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error loading cart")
		return
	}

	cc.respondWithCart(ctx, w, cart)
}

// AddToCart adds a product to the user's cart; if the product is already in
// the cart the quantities accumulate into a single line item
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, violations := validation.DecodeAddToCart(r)
	if violations != nil {
		utils.ValidationFailed(w, violations)
		return
	}
	// the objectid tag in DecodeAddToCart already guaranteed a parseable id
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	ctx, cancel := requestContext(r)
	defer cancel()
	if _, err := cc.Products.FindByID(ctx, productID); err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	cart, err := cc.loadOrCreateCart(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error loading cart")
		return
	}

	merged := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity += req.Qty()
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: req.Qty()})
	}

	if err := cc.Carts.SaveItems(ctx, cart.ID, cart.Items); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error updating cart")
		return
	}

	cc.respondWithCart(ctx, w, cart)
}

// RemoveFromCart removes a product from the user's cart. An item that is not
// in the cart is a silent no-op.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Cart not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Error loading cart")
		return
	}

	remaining := []models.CartItem{}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}
	cart.Items = remaining

	if err := cc.Carts.SaveItems(ctx, cart.ID, cart.Items); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error updating cart")
		return
	}

	cc.respondWithCart(ctx, w, cart)
}

// ClearCart empties the user's cart. An absent cart is not an error.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := cc.Carts.FindByUser(ctx, userID)
	if err == nil {
		if err := cc.Carts.SaveItems(ctx, cart.ID, []models.CartItem{}); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Error updating cart")
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusInternalServerError, "Error loading cart")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

func (cc *CartController) loadOrCreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := cc.Carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if err := cc.Carts.Create(ctx, cart); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// lost the creation race, the existing cart wins
			return cc.Carts.FindByUser(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

func (cc *CartController) respondWithCart(ctx context.Context, w http.ResponseWriter, cart *models.Cart) {
	populated, err := populateCart(ctx, cc.Products, cart)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error loading cart")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"cart": populated})
}

// populateCart embeds the referenced product documents into the cart view.
// Items whose product no longer exists are omitted from the view.
func populateCart(ctx context.Context, products store.ProductStore, cart *models.Cart) (*models.PopulatedCart, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	populated := &models.PopulatedCart{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  []models.PopulatedCartItem{},
	}
	for _, item := range cart.Items {
		product, ok := found[item.ProductID]
		if !ok {
			continue
		}
		populated.Items = append(populated.Items, models.PopulatedCartItem{
			Product:  product,
			Quantity: item.Quantity,
		})
	}
	return populated, nil
}
