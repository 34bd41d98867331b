// Package validation declares one request shape per mutating endpoint and a
// decode function that returns either the normalized payload or a list of
// field-level violations.
package validation

import (
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"go-marketplace/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = newValidator()

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// report violations under the json field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	err = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		_, err := primitive.ObjectIDFromHex(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
	return v
}

// RegisterRequest is the payload of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
}

// LoginRequest is the payload of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the payload of PUT /api/users/:id; at least one field
// must be present
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30,username"`
	Password *string `json:"password" validate:"omitempty,min=8,max=100"`
}

// CreateProductRequest is the payload of POST /api/products
type CreateProductRequest struct {
	Title       string  `json:"title" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"omitempty,url"`
}

// UpdateProductRequest is the payload of PUT /api/products/:id; at least one
// field must be present
type UpdateProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Image       *string  `json:"image" validate:"omitempty,url"`
}

// AddToCartRequest is the payload of POST /api/cart/items
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

// Qty returns the requested quantity, defaulting to 1
func (r *AddToCartRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// DecodeRegister parses and validates a registration payload, normalizing
// the email to trimmed lowercase
func DecodeRegister(r *http.Request) (*RegisterRequest, []utils.FieldError) {
	var req RegisterRequest
	if violations := decodeJSON(r, &req); violations != nil {
		return nil, violations
	}
	req.Email = normalizeEmail(req.Email)
	if violations := check(&req); violations != nil {
		return nil, violations
	}
	return &req, nil
}

// DecodeLogin parses and validates a login payload
func DecodeLogin(r *http.Request) (*LoginRequest, []utils.FieldError) {
	var req LoginRequest
	if violations := decodeJSON(r, &req); violations != nil {
		return nil, violations
	}
	req.Email = normalizeEmail(req.Email)
	if violations := check(&req); violations != nil {
		return nil, violations
	}
	return &req, nil
}

// DecodeUpdateUser parses and validates a profile update payload
func DecodeUpdateUser(r *http.Request) (*UpdateUserRequest, []utils.FieldError) {
	var req UpdateUserRequest
	if violations := decode(r, &req); violations != nil {
		return nil, violations
	}
	if req.Username == nil && req.Password == nil {
		return nil, atLeastOneField()
	}
	// omitempty skips zero values, so explicit empty strings need their own check
	if req.Username != nil && *req.Username == "" {
		return nil, []utils.FieldError{{Field: "username", Message: "must be at least 3"}}
	}
	if req.Password != nil && *req.Password == "" {
		return nil, []utils.FieldError{{Field: "password", Message: "must be at least 8"}}
	}
	return &req, nil
}

// DecodeCreateProduct parses and validates a product creation payload
func DecodeCreateProduct(r *http.Request) (*CreateProductRequest, []utils.FieldError) {
	var req CreateProductRequest
	if violations := decode(r, &req); violations != nil {
		return nil, violations
	}
	return &req, nil
}

// DecodeUpdateProduct parses and validates a product update payload
func DecodeUpdateProduct(r *http.Request) (*UpdateProductRequest, []utils.FieldError) {
	var req UpdateProductRequest
	if violations := decode(r, &req); violations != nil {
		return nil, violations
	}
	if req.Title == nil && req.Category == nil && req.Description == nil &&
		req.Price == nil && req.Image == nil {
		return nil, atLeastOneField()
	}
	// omitempty skips zero values, so explicit zeroes need their own check
	if req.Title != nil && *req.Title == "" {
		return nil, []utils.FieldError{{Field: "title", Message: "must be at least 1"}}
	}
	if req.Category != nil && *req.Category == "" {
		return nil, []utils.FieldError{{Field: "category", Message: "must be at least 1"}}
	}
	if req.Price != nil && *req.Price == 0 {
		return nil, []utils.FieldError{{Field: "price", Message: "must be greater than 0"}}
	}
	return &req, nil
}

// DecodeAddToCart parses and validates an add-to-cart payload
func DecodeAddToCart(r *http.Request) (*AddToCartRequest, []utils.FieldError) {
	var req AddToCartRequest
	if violations := decode(r, &req); violations != nil {
		return nil, violations
	}
	// omitempty skips zero values, so an explicit zero needs its own check
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, []utils.FieldError{{Field: "quantity", Message: "must be at least 1"}}
	}
	return &req, nil
}

func decode(r *http.Request, dst interface{}) []utils.FieldError {
	if violations := decodeJSON(r, dst); violations != nil {
		return violations
	}
	return check(dst)
}

func decodeJSON(r *http.Request, dst interface{}) []utils.FieldError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return []utils.FieldError{{Field: "body", Message: "invalid JSON"}}
	}
	return nil
}

func check(dst interface{}) []utils.FieldError {
	if err := validate.Struct(dst); err != nil {
		var violations []utils.FieldError
		for _, fe := range err.(validator.ValidationErrors) {
			violations = append(violations, utils.FieldError{
				Field:   fe.Field(),
				Message: violationMessage(fe),
			})
		}
		return violations
	}
	return nil
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "username":
		return "may only contain letters, numbers, dots, dashes and underscores"
	case "objectid":
		return "must be a valid id"
	}
	return "is invalid"
}

func atLeastOneField() []utils.FieldError {
	return []utils.FieldError{{Field: "body", Message: "provide at least one field to update"}}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
