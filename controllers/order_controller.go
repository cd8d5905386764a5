package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// ListOrders returns the authenticated user's orders, newest first.
func (ctrl *Controller) ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	pagination := utils.NewPagination(c)
	orders, err := ctrl.Orders.ListOrders(user.ID, pagination)
	if err != nil {
		utils.LogError("Failed to list orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to list orders", nil)
		return
	}

	utils.SendPaginatedResponse(c, summarizeOrders(orders), pagination)
}

// GetOrderDetails returns one of the user's orders with its frozen item
// snapshots and the shipping address captured at checkout.
func (ctrl *Controller) GetOrderDetails(c *gin.Context) {
	utils.LogInfo("GetOrderDetails called")
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

	order, err := ctrl.Orders.GetOrder(user.ID, uint(orderID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Order retrieved", orderDetailView(order))
}

func summarizeOrders(orders []models.Order) []gin.H {
	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		out = append(out, gin.H{
			"order_id":       o.ID,
			"total_amount":   o.TotalAmount,
			"status":         o.Status,
			"payment_status": o.PaymentStatus,
			"item_count":     len(o.OrderItems),
			"placed_at":      o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out
}

func orderDetailView(order *models.Order) gin.H {
	items := make([]gin.H, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, gin.H{
			"product_id": item.ProductID,
			"name":       item.Name,
			"pack_label": item.PackLabel,
			"price":      item.Price,
			"quantity":   item.Quantity,
			"line_total": item.Price * float64(item.Quantity),
			"image":      item.Image,
		})
	}
	return gin.H{
		"order_id":       order.ID,
		"items":          items,
		"subtotal":       order.Subtotal,
		"shipping_fee":   order.ShippingFee,
		"discount":       order.Discount,
		"coins_redeemed": order.CoinsRedeemed,
		"total_amount":   order.TotalAmount,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"placed_at":      order.CreatedAt.Format("2006-01-02 15:04:05"),
		"shipping_address": gin.H{
			"name":        order.ShipName,
			"phone":       order.ShipPhone,
			"line1":       order.ShipLine1,
			"line2":       order.ShipLine2,
			"city":        order.ShipCity,
			"state":       order.ShipState,
			"country":     order.ShipCountry,
			"postal_code": order.ShipPostalCode,
		},
	}
}
