package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]interface{}{
		"email":    "dupe@example.com",
		"password": "password123",
		"username": "firstuser",
	}
	rr := doRequest(t, router, "POST", "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rr.Code)

	payload["username"] = "seconduser"
	rr = doRequest(t, router, "POST", "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Already Registered!", decodeBody(t, rr)["message"])
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"email": "not-an-email", "password": "password123", "username": "someuser",
			},
		},
		{
			name: "short password",
			payload: map[string]interface{}{
				"email": "a@example.com", "password": "short", "username": "someuser",
			},
		},
		{
			name: "username with illegal characters",
			payload: map[string]interface{}{
				"email": "b@example.com", "password": "password123", "username": "bad user!",
			},
		},
		{
			name: "username too short",
			payload: map[string]interface{}{
				"email": "c@example.com", "password": "password123", "username": "ab",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, "POST", "/api/auth/register", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeBody(t, rr), "errors")
		})
	}
}

func TestUserResponsesNeverContainPassword(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "POST", "/api/auth/register", "", map[string]interface{}{
		"email":    "secret@example.com",
		"password": "password123",
		"username": "secretive",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody(t, rr)
	user := body["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
	token := body["token"].(string)

	rr = doRequest(t, router, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "secret@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	user = decodeBody(t, rr)["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")

	rr = doRequest(t, router, "GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	user = decodeBody(t, rr)["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(t)
	_, user := registerUser(t, router, "loginuser")

	rr := doRequest(t, router, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    user["email"],
		"password": "wrong-password",
	})
	wrongPassword := decodeBody(t, rr)
	wrongPasswordCode := rr.Code

	rr = doRequest(t, router, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	unknownEmail := decodeBody(t, rr)

	assert.Equal(t, http.StatusUnauthorized, wrongPasswordCode)
	assert.Equal(t, wrongPasswordCode, rr.Code)
	assert.Equal(t, wrongPassword["message"], unknownEmail["message"])
}

func TestEmailNormalizedOnRegister(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "POST", "/api/auth/register", "", map[string]interface{}{
		"email":    "Mixed.Case@Example.COM",
		"password": "password123",
		"username": "mixedcase",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	user := decodeBody(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, "mixed.case@example.com", user["email"])

	// login with a differently cased email still works
	rr = doRequest(t, router, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "MIXED.CASE@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateUserSelfOnly(t *testing.T) {
	router := newTestRouter(t)
	tokenA, userA := registerUser(t, router, "alice")
	_, userB := registerUser(t, router, "bob")

	// another user's profile is off limits
	rr := doRequest(t, router, "PUT", "/api/users/"+userB["id"].(string), tokenA, map[string]interface{}{
		"username": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// empty update is rejected
	rr = doRequest(t, router, "PUT", "/api/users/"+userA["id"].(string), tokenA, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// self update succeeds
	rr = doRequest(t, router, "PUT", "/api/users/"+userA["id"].(string), tokenA, map[string]interface{}{
		"username": "alice.renamed",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	user := decodeBody(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, "alice.renamed", user["username"])
	assert.NotContains(t, user, "password")
}

func TestUpdateUserPasswordRehashed(t *testing.T) {
	router := newTestRouter(t)
	token, user := registerUser(t, router, "rehash")

	rr := doRequest(t, router, "PUT", "/api/users/"+user["id"].(string), token, map[string]interface{}{
		"password": "newpassword456",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    user["email"],
		"password": "newpassword456",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    user["email"],
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, "GET", "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(t, router, "GET", "/api/cart", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCheckEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rr := doRequest(t, router, "GET", "/check", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decodeBody(t, rr)["status"])
}
