// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated viewer's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access viewer information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Name returns the user's display name as stored on leads.
	Name() string
	// Role returns the user's role.
	Role() string
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        uuid.UUID
	name          string
	role          string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID { return i.userID }
func (i *identity) Name() string      { return i.name }
func (i *identity) Role() string      { return i.role }
func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if viewer info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	name := c.GetString(ContextUserNameKey)
	role := c.GetString(ContextRoleKey)

	return &identity{
		userID:        uid,
		name:          name,
		role:          role,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context and aborts the
// request with 401 when the viewer is not authenticated.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return id, true
}
