package controllers

import (
	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/services"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controller bundles the service handles every handler needs. It is built once
// in main and injected into the router; handlers never reach for globals.
type Controller struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Carts    *services.CartService
	Orders   *services.OrderService
	Payments *services.PaymentService
	Rewards  *services.RewardService
	Notifier *services.Notifier
}

// New wires up the controller with all domain services.
func New(db *gorm.DB, cfg *config.Config) *Controller {
	notifier := services.NewNotifier(cfg)
	return &Controller{
		DB:       db,
		Cfg:      cfg,
		Carts:    services.NewCartService(db, cfg),
		Orders:   services.NewOrderService(db, cfg, notifier),
		Payments: services.NewPaymentService(db, cfg, notifier),
		Rewards:  services.NewRewardService(db, cfg),
		Notifier: notifier,
	}
}

// currentUser pulls the authenticated user out of the gin context.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

// cartOwner resolves who the cart belongs to: the authenticated user when one
// is present, otherwise the guest session. Never both.
func cartOwner(c *gin.Context) (services.CartOwner, error) {
	if user, ok := currentUser(c); ok {
		return services.UserOwner(user.ID), nil
	}
	guestID, err := utils.GuestID(c)
	if err != nil {
		return services.CartOwner{}, err
	}
	return services.GuestOwner(guestID), nil
}
