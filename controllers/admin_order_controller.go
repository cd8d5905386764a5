package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// AdminListOrders returns all orders, newest first, optionally filtered by status.
func (ctrl *Controller) AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)
	orders, err := ctrl.Orders.AdminListOrders(c.Query("status"), pagination)
	if err != nil {
		utils.LogError("Failed to list orders for admin: %v", err)
		utils.InternalServerError(c, "Failed to list orders", nil)
		return
	}

	rows := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, gin.H{
			"order_id":       o.ID,
			"user_id":        o.UserID,
			"username":       o.User.Username,
			"total_amount":   o.TotalAmount,
			"coins_redeemed": o.CoinsRedeemed,
			"status":         o.Status,
			"payment_status": o.PaymentStatus,
			"item_count":     len(o.OrderItems),
			"placed_at":      o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.SendPaginatedResponse(c, rows, pagination)
}

// AdminUpdateOrderStatus applies a status transition to an order. Cancelling a
// paid order puts its stock back.
func (ctrl *Controller) AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")

	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order id", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	order, err := ctrl.Orders.UpdateStatus(uint(orderID), req.Status)
	if err != nil {
		utils.LogError("Failed to update status for order %d: %v", orderID, err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Order status updated", gin.H{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})
}
