package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/services"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// InitiatePayment creates (or reuses) the gateway-side order for a pending
// order and hands the storefront what it needs to open the checkout widget.
func (ctrl *Controller) InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order id", nil)
		return
	}

	result, err := ctrl.Payments.InitiatePayment(user.ID, uint(orderID))
	if err != nil {
		utils.LogError("Failed to initiate payment for order %d: %v", orderID, err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Payment initiated", result)
}

// VerifyPayment is the direct client confirmation path: the storefront posts
// the gateway's order id, payment id and signature after checkout completes.
func (ctrl *Controller) VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var req services.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	order, err := ctrl.Payments.VerifyPayment(user.ID, req)
	if err != nil {
		utils.LogError("Payment verification failed for order %d: %v", req.OrderID, err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Payment verified", gin.H{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"total_amount":   order.TotalAmount,
	})
}
