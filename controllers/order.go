package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
	"go-marketplace/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderController handles checkout and order history requests
type OrderController struct {
	Orders       store.OrderStore
	Carts        store.CartStore
	Products     store.ProductStore
	Users        store.UserStore
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(stores store.Stores, emailService *utils.EmailService) *OrderController {
	return &OrderController{
		Orders:       stores.Orders,
		Carts:        stores.Carts,
		Products:     stores.Products,
		Users:        stores.Users,
		EmailService: emailService,
	}
}

// Checkout converts the user's cart into an immutable order. Each item's
// current product price is snapshotted into the order, the total is the sum
// of price times quantity, and the cart is emptied.
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	cart, err := oc.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Error loading cart")
		return
	}
	if len(cart.Items) == 0 {
		utils.Error(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := oc.Products.FindByIDs(ctx, ids)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error loading products")
		return
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	total := 0.0
	for _, item := range cart.Items {
		product, ok := found[item.ProductID]
		if !ok {
			utils.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	order := models.Order{
		UserID:    userID,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	if err := oc.Orders.Create(ctx, &order); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error creating order")
		return
	}

	if err := oc.Carts.SaveItems(ctx, cart.ID, []models.CartItem{}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error clearing cart")
		return
	}

	if user, err := oc.Users.FindByID(ctx, userID); err == nil {
		go func(u models.User, o models.Order) {
			if err := oc.EmailService.SendOrderConfirmationEmail(u, o); err != nil {
				log.Printf("Failed to send order confirmation to %s: %v", u.Email, err)
			}
		}(*user, order)
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{"order": order})
}

// GetOrders lists the authenticated user's orders, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	orders, err := oc.Orders.FindByUser(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrderByID retrieves one order with its items populated, owner only
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	order, err := oc.Orders.FindByID(ctx, id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	if !isOwner(order.UserID, userID) {
		utils.Error(w, http.StatusForbidden, "Not authorized")
		return
	}

	populated, err := oc.populateOrder(ctx, order)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error loading order")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"order": populated})
}

// populateOrder embeds the current product documents into the order detail
// view; the stored prices stay the checkout-time snapshot. A product deleted
// since the purchase appears as null.
func (oc *OrderController) populateOrder(ctx context.Context, order *models.Order) (*models.PopulatedOrder, error) {
	ids := make([]primitive.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := oc.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	populated := &models.PopulatedOrder{
		ID:        order.ID,
		UserID:    order.UserID,
		Items:     []models.PopulatedOrderItem{},
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		view := models.PopulatedOrderItem{
			Quantity: item.Quantity,
			Price:    item.Price,
		}
		if product, ok := found[item.ProductID]; ok {
			p := product
			view.Product = &p
		}
		populated.Items = append(populated.Items, view)
	}
	return populated, nil
}
