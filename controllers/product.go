package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
	"go-marketplace/utils"
	"go-marketplace/validation"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ProductController handles product listing requests
type ProductController struct {
	Products store.ProductStore
	Users    store.UserStore
}

// NewProductController creates a new ProductController
func NewProductController(products store.ProductStore, users store.UserStore) *ProductController {
	return &ProductController{Products: products, Users: users}
}

// CreateProduct handles adding a new listing; the creator becomes the owner
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, violations := validation.DecodeCreateProduct(r)
	if violations != nil {
		utils.ValidationFailed(w, violations)
		return
	}

	now := time.Now().UTC()
	product := models.Product{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Owner:       userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := pc.Products.Create(ctx, &product); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// GetProducts lists products with free-text search, category filter and
// offset pagination. The response carries the total match count independent
// of the page window.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.ProductFilter{
		Query:    query.Get("q"),
		Category: query.Get("category"),
		Page:     parseIntParam(query.Get("page"), defaultPage),
		Limit:    parseIntParam(query.Get("limit"), defaultLimit),
	}
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	products, total, err := pc.Products.Search(ctx, filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	populated, err := pc.populateOwners(ctx, products)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"products": populated,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// GetProductByID retrieves a single product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	product, err := pc.Products.FindByID(ctx, id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	populated, err := pc.populateOwners(ctx, []models.Product{*product})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching product")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"product": populated[0]})
}

// UpdateProduct handles partial updates of a listing, owner only
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	product, err := pc.Products.FindByID(ctx, id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	if !isOwner(product.Owner, userID) {
		utils.Error(w, http.StatusForbidden, "Not authorized")
		return
	}

	req, violations := validation.DecodeUpdateProduct(r)
	if violations != nil {
		utils.ValidationFailed(w, violations)
		return
	}

	updated, err := pc.Products.Update(ctx, id, store.ProductUpdate{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"product": updated})
}

// DeleteProduct removes a listing, owner only
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	product, err := pc.Products.FindByID(ctx, id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	if !isOwner(product.Owner, userID) {
		utils.Error(w, http.StatusForbidden, "Not authorized")
		return
	}

	if err := pc.Products.Delete(ctx, id); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error deleting product")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// GetMyProducts lists the authenticated user's own listings
func (pc *ProductController) GetMyProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	products, err := pc.Products.FindByOwner(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// populateOwners embeds each listing's owner as an {id, username} document
// in the read views. Users are never deleted, so a missing owner only leaves
// the username blank.
func (pc *ProductController) populateOwners(ctx context.Context, products []models.Product) ([]models.PopulatedProduct, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.Owner)
	}
	owners, err := pc.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	populated := make([]models.PopulatedProduct, 0, len(products))
	for _, product := range products {
		view := models.PopulatedProduct{
			Product: product,
			Owner:   models.ProductOwner{ID: product.Owner},
		}
		if owner, ok := owners[product.Owner]; ok {
			view.Owner.Username = owner.Username
		}
		populated = append(populated, view)
	}
	return populated, nil
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
