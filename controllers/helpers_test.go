package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-marketplace/controllers"
	"go-marketplace/routes"
	"go-marketplace/store"
	"go-marketplace/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// newTestRouter builds the full application router on top of the in-memory
// store so handlers run end-to-end through middleware and routing.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	t.Setenv("SENDGRID_API_KEY", "")
	utils.JwtKey = []byte("test-secret-key")

	_, stores := store.NewMemory()
	emailService := utils.NewEmailService()

	userController := controllers.NewUserController(stores.Users, emailService)
	productController := controllers.NewProductController(stores.Products, stores.Users)
	cartController := controllers.NewCartController(stores.Carts, stores.Products)
	orderController := controllers.NewOrderController(stores, emailService)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController)
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

var userSeq int

// registerUser creates an account and returns its token and user document
func registerUser(t *testing.T, router *mux.Router, username string) (string, map[string]interface{}) {
	t.Helper()
	userSeq++
	rr := doRequest(t, router, "POST", "/api/auth/register", "", map[string]interface{}{
		"email":    fmt.Sprintf("%s%d@example.com", username, userSeq),
		"password": "password123",
		"username": username,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	return token, user
}

// createProduct creates a listing owned by the token's user and returns it
func createProduct(t *testing.T, router *mux.Router, token, title, category string, price float64) map[string]interface{} {
	t.Helper()
	rr := doRequest(t, router, "POST", "/api/products", token, map[string]interface{}{
		"title":    title,
		"category": category,
		"price":    price,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	product, _ := decodeBody(t, rr)["product"].(map[string]interface{})
	require.NotNil(t, product)
	return product
}
