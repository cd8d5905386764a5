package utils

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const guestIDKey = "guest_id"

// GuestID returns the guest identity stored in the cookie session, creating
// one on first use. Guest identity backs anonymous carts only; it is never
// mixed with an authenticated user id.
func GuestID(c *gin.Context) (string, error) {
	session := sessions.Default(c)
	if id, ok := session.Get(guestIDKey).(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	session.Set(guestIDKey, id)
	if err := session.Save(); err != nil {
		return "", err
	}
	return id, nil
}
