package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addToCart(t *testing.T, router *mux.Router, token, productID string, quantity int) {
	t.Helper()
	rr := doRequest(t, router, "POST", "/api/cart/items", token, map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestCheckoutComputesTotalAndEmptiesCart(t *testing.T) {
	router := newTestRouter(t)
	seller, _ := registerUser(t, router, "seller")
	token, _ := registerUser(t, router, "buyer")

	p1 := createProduct(t, router, seller, "Mug", "kitchen", 10)
	p2 := createProduct(t, router, seller, "Spoon", "kitchen", 5)

	addToCart(t, router, token, p1["id"].(string), 2)
	addToCart(t, router, token, p2["id"].(string), 1)

	rr := doRequest(t, router, "POST", "/api/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	order := decodeBody(t, rr)["order"].(map[string]interface{})
	assert.Equal(t, float64(25), order["total"])
	assert.Len(t, order["items"], 2)

	// the cart is empty afterwards
	rr = doRequest(t, router, "GET", "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, cartItems(t, decodeBody(t, rr)))
}

func TestCheckoutEmptyCart(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "buyer")

	// no cart at all
	rr := doRequest(t, router, "POST", "/api/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Cart is empty", decodeBody(t, rr)["message"])

	// cart exists but has no items
	rr = doRequest(t, router, "GET", "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doRequest(t, router, "POST", "/api/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// no order was created
	rr = doRequest(t, router, "GET", "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeBody(t, rr)["orders"])
}

func TestOrderPricesAreSnapshots(t *testing.T) {
	router := newTestRouter(t)
	seller, _ := registerUser(t, router, "seller")
	token, _ := registerUser(t, router, "buyer")

	product := createProduct(t, router, seller, "Headphones", "tech", 80)
	addToCart(t, router, token, product["id"].(string), 1)

	rr := doRequest(t, router, "POST", "/api/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	order := decodeBody(t, rr)["order"].(map[string]interface{})
	orderID := order["id"].(string)

	// the seller raises the price after the purchase
	rr = doRequest(t, router, "PUT", "/api/products/"+product["id"].(string), seller, map[string]interface{}{
		"price": 120.0,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "GET", "/api/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody(t, rr)["order"].(map[string]interface{})
	items := got["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(80), item["price"])
	assert.Equal(t, float64(80), got["total"])
	// while the populated product shows the current price
	assert.Equal(t, float64(120), item["product"].(map[string]interface{})["price"])
}

func TestOrdersSortedNewestFirst(t *testing.T) {
	router := newTestRouter(t)
	seller, _ := registerUser(t, router, "seller")
	token, _ := registerUser(t, router, "buyer")

	first := createProduct(t, router, seller, "First", "misc", 1)
	second := createProduct(t, router, seller, "Second", "misc", 2)

	addToCart(t, router, token, first["id"].(string), 1)
	rr := doRequest(t, router, "POST", "/api/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	time.Sleep(5 * time.Millisecond)

	addToCart(t, router, token, second["id"].(string), 1)
	rr = doRequest(t, router, "POST", "/api/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, "GET", "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	orders := decodeBody(t, rr)["orders"].([]interface{})
	require.Len(t, orders, 2)
	assert.Equal(t, float64(2), orders[0].(map[string]interface{})["total"])
	assert.Equal(t, float64(1), orders[1].(map[string]interface{})["total"])
}

func TestGetOrderOwnerOnly(t *testing.T) {
	router := newTestRouter(t)
	seller, _ := registerUser(t, router, "seller")
	buyer, _ := registerUser(t, router, "buyer")
	other, _ := registerUser(t, router, "other")

	product := createProduct(t, router, seller, "Chair", "home", 45)
	addToCart(t, router, buyer, product["id"].(string), 1)

	rr := doRequest(t, router, "POST", "/api/checkout", buyer, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	orderID := decodeBody(t, rr)["order"].(map[string]interface{})["id"].(string)

	rr = doRequest(t, router, "GET", "/api/orders/"+orderID, other, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, router, "GET", "/api/orders/"+orderID, buyer, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "GET", "/api/orders/ffffffffffffffffffffffff", buyer, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, router, "GET", "/api/orders/not-an-id", buyer, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckoutFailsWhenProductDeleted(t *testing.T) {
	router := newTestRouter(t)
	seller, _ := registerUser(t, router, "seller")
	buyer, _ := registerUser(t, router, "buyer")

	product := createProduct(t, router, seller, "Fleeting", "misc", 9)
	addToCart(t, router, buyer, product["id"].(string), 1)

	rr := doRequest(t, router, "DELETE", "/api/products/"+product["id"].(string), seller, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "POST", "/api/checkout", buyer, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// nothing was written
	rr = doRequest(t, router, "GET", "/api/orders", buyer, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeBody(t, rr)["orders"])
}
