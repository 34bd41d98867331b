// routes/routes.go
package routes

import (
	"net/http"

	"go-marketplace/controllers"
	"go-marketplace/middleware"
	"go-marketplace/utils"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	router.Use(middleware.RecoverMiddleware)

	// Liveness
	router.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", userController.Register).Methods("POST")
	api.HandleFunc("/auth/login", userController.Login).Methods("POST")
	api.HandleFunc("/products", productController.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", userController.Me).Methods("GET")
	protected.HandleFunc("/users/{id}", userController.UpdateUser).Methods("PUT")

	protected.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	protected.HandleFunc("/products/{id}", productController.UpdateProduct).Methods("PUT")
	protected.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")
	protected.HandleFunc("/my/products", productController.GetMyProducts).Methods("GET")

	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/items/{id}", cartController.RemoveFromCart).Methods("DELETE")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")

	protected.HandleFunc("/checkout", orderController.Checkout).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", orderController.GetOrderByID).Methods("GET")
}
