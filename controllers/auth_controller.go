package controllers

import (
	"strings"
	"time"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register creates a new user account.
func (ctrl *Controller) Register(c *gin.Context) {
	utils.LogInfo("Register called")

	var req struct {
		Username  string `json:"username" binding:"required,min=3,max=30"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := ctrl.DB.Where("email = ? OR username = ?", email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration conflict for email %s", email)
		utils.Conflict(c, "An account with this email or username already exists", nil)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}
	utils.LogInfo("Registered user %d (%s)", user.ID, user.Email)

	utils.Created(c, "Registration successful", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login authenticates a user and returns a JWT. A guest cart from the current
// session is folded into the user's cart on success.
func (ctrl *Controller) Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var user models.User
	err := ctrl.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err == gorm.ErrRecordNotFound || (err == nil && !utils.CheckPassword(req.Password, user.Password)) {
		utils.LogError("Failed login attempt for %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if err != nil {
		utils.LogError("Login lookup failed: %v", err)
		utils.InternalServerError(c, "Login failed", nil)
		return
	}

	if user.IsBlocked {
		utils.LogError("Blocked user %d attempted login", user.ID)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, ctrl.Cfg.JWTSecret)
	if err != nil {
		utils.LogError("Failed to generate token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Login failed", nil)
		return
	}

	ctrl.DB.Model(&user).Update("last_login_at", time.Now())

	// Adopt the guest cart, if this session has one.
	session := sessions.Default(c)
	if guestID, ok := session.Get("guest_id").(string); ok && guestID != "" {
		if err := ctrl.Carts.MergeGuestCart(guestID, user.ID); err != nil {
			utils.LogError("Failed to merge guest cart for user %d: %v", user.ID, err)
		}
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		},
	})
}
