package controllers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 5 * time.Second

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// isOwner is the single ownership predicate used by every owner-only check
func isOwner(resourceOwner, userID primitive.ObjectID) bool {
	return resourceOwner == userID
}
