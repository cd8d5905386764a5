package controllers

import (
	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/services"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// GetCheckoutSummary prices the user's cart for the checkout page: live
// subtotal, shipping fee, applied coin discount and the payable total.
func (ctrl *Controller) GetCheckoutSummary(c *gin.Context) {
	utils.LogInfo("GetCheckoutSummary called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	cart, err := ctrl.Carts.GetCart(services.UserOwner(user.ID))
	if err != nil {
		utils.LogError("Failed to load cart for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to build checkout summary", nil)
		return
	}

	details := ctrl.Carts.Details(cart)
	shippingFee := utils.StandardShippingFee
	if details.Subtotal > utils.FreeShippingThreshold || details.Subtotal == 0 {
		shippingFee = 0
	}

	var addresses []models.Address
	if err := ctrl.DB.Where("user_id = ?", user.ID).Order("is_default DESC, id ASC").Find(&addresses).Error; err != nil {
		utils.LogError("Failed to load addresses for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to build checkout summary", nil)
		return
	}

	utils.Success(c, "Checkout summary", gin.H{
		"items":         details.Lines,
		"subtotal":      details.Subtotal,
		"shipping_fee":  shippingFee,
		"applied_coins": details.AppliedCoins,
		"coin_discount": details.CoinDiscount,
		"total":         details.FinalTotal + shippingFee,
		"addresses":     addresses,
	})
}

// PlaceOrder turns the user's cart into an order shipped to the chosen address.
func (ctrl *Controller) PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var req struct {
		AddressID uint `json:"address_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	order, err := ctrl.Orders.CreateOrder(user.ID, req.AddressID)
	if err != nil {
		utils.LogError("Failed to place order for user %d: %v", user.ID, err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.Created(c, "Order placed successfully", gin.H{
		"order_id":       order.ID,
		"subtotal":       order.Subtotal,
		"shipping_fee":   order.ShippingFee,
		"discount":       order.Discount,
		"coins_redeemed": order.CoinsRedeemed,
		"total_amount":   order.TotalAmount,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}
