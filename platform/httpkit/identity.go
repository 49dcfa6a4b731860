// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated dashboard user.
// Handlers read it without depending on how the token was parsed.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Claims returns the verified token claims.
	Claims() map[string]interface{}
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	claims        map[string]interface{}
	authenticated bool
}

func (i *identity) UserID() uuid.UUID {
	return i.userID
}

func (i *identity) Claims() map[string]interface{} {
	return i.claims
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	id := &identity{userID: uid, authenticated: true}
	if claims, ok := c.Get(ContextClaimsKey); ok {
		id.claims, _ = claims.(map[string]interface{})
	}
	return id
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		AbortError(c, http.StatusUnauthorized, "unauthorized")
		return nil
	}
	return id
}
