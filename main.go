// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go-marketplace/controllers"
	"go-marketplace/routes"
	"go-marketplace/store"
	"go-marketplace/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	mongoStore := store.NewMongo(client, utils.DatabaseName())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatal(err)
	}
	cancel()
	stores := mongoStore.Stores()

	// Initialize controllers
	userController := controllers.NewUserController(stores.Users, emailService)
	productController := controllers.NewProductController(stores.Products, stores.Users)
	cartController := controllers.NewCartController(stores.Carts, stores.Products)
	orderController := controllers.NewOrderController(stores, emailService)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("Server is running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
