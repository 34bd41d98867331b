package controllers

import (
	"errors"
	"log"
	"net/http"

	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/store"
	"go-marketplace/utils"
	"go-marketplace/validation"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// UserController handles registration, login and profile requests
type UserController struct {
	Users        store.UserStore
	EmailService *utils.EmailService
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore, emailService *utils.EmailService) *UserController {
	return &UserController{
		Users:        users,
		EmailService: emailService,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	req, violations := validation.DecodeRegister(r)
	if violations != nil {
		utils.ValidationFailed(w, violations)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user := models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashedPassword),
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := uc.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(w, http.StatusConflict, "Already Registered!")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	go func(u models.User) {
		if err := uc.EmailService.SendWelcomeEmail(u); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", u.Email, err)
		}
	}(user)

	utils.JSON(w, http.StatusCreated, map[string]interface{}{"token": token, "user": user})
}

// Login handles user authentication. Unknown email and wrong password fail
// identically so the response does not reveal which one was wrong.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	req, violations := validation.DecodeLogin(r)
	if violations != nil {
		utils.ValidationFailed(w, violations)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := uc.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": user})
}

// Me returns the authenticated user's profile
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateUser handles self-service profile updates
func (uc *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if !isOwner(id, userID) {
		utils.Error(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	req, violations := validation.DecodeUpdateUser(r)
	if violations != nil {
		utils.ValidationFailed(w, violations)
		return
	}

	update := store.UserUpdate{Username: req.Username}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Error hashing password")
			return
		}
		hashed := string(hashedPassword)
		update.Password = &hashed
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := uc.Users.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
