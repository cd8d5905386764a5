package middleware

import (
	"net/http"
	"strings"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func tokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func loadUser(db *gorm.DB, secret, tokenString string) (models.User, error) {
	userID, err := utils.ValidateToken(tokenString, secret)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// AuthMiddleware requires a valid bearer token and puts the user in context.
// Blocked accounts are rejected even with a valid token.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromHeader(c)
		if tokenString == "" {
			utils.LogError("Missing Authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		user, err := loadUser(db, secret, tokenString)
		if err != nil {
			utils.LogError("Authentication failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		if user.IsBlocked {
			utils.LogError("Blocked user %d attempted access", user.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid bearer token is present and
// falls through silently otherwise. Cart routes use this so guests can shop.
func OptionalAuth(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromHeader(c); tokenString != "" {
			if user, err := loadUser(db, secret, tokenString); err == nil && !user.IsBlocked {
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

// AdminMiddleware requires the context user to be an admin. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}
		user, ok := userVal.(models.User)
		if !ok || !user.IsAdmin {
			utils.LogError("Non-admin user attempted admin access")
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
