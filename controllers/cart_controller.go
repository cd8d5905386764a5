package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// GetCart returns the caller's cart priced from the live catalog. Works for
// both authenticated users and guest sessions.
func (ctrl *Controller) GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")
	owner, err := cartOwner(c)
	if err != nil {
		utils.LogError("Failed to resolve cart owner: %v", err)
		utils.InternalServerError(c, "Failed to get cart", nil)
		return
	}

	cart, err := ctrl.Carts.GetCart(owner)
	if err != nil {
		utils.LogError("Failed to load cart: %v", err)
		utils.InternalServerError(c, "Failed to get cart", nil)
		return
	}

	utils.Success(c, "Cart retrieved", ctrl.Carts.Details(cart))
}

// AddToCart adds a product (optionally a specific pack) to the caller's cart.
func (ctrl *Controller) AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")

	var req struct {
		ProductID uint   `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
		PackLabel string `json:"pack_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	owner, err := cartOwner(c)
	if err != nil {
		utils.LogError("Failed to resolve cart owner: %v", err)
		utils.InternalServerError(c, "Failed to add to cart", nil)
		return
	}

	cart, err := ctrl.Carts.AddItem(owner, req.ProductID, req.Quantity, req.PackLabel)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Item added to cart", ctrl.Carts.Details(cart))
}

// UpdateCartItem sets the quantity of a cart line. Quantity zero removes it.
func (ctrl *Controller) UpdateCartItem(c *gin.Context) {
	utils.LogInfo("UpdateCartItem called")

	var req struct {
		ProductID uint   `json:"product_id" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
		PackLabel string `json:"pack_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	owner, err := cartOwner(c)
	if err != nil {
		utils.LogError("Failed to resolve cart owner: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	cart, err := ctrl.Carts.UpdateItem(owner, req.ProductID, *req.Quantity, req.PackLabel)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Cart updated", ctrl.Carts.Details(cart))
}

// RemoveFromCart deletes one line from the caller's cart.
func (ctrl *Controller) RemoveFromCart(c *gin.Context) {
	utils.LogInfo("RemoveFromCart called")

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid product id", nil)
		return
	}
	packLabel := c.Query("pack_label")

	owner, err := cartOwner(c)
	if err != nil {
		utils.LogError("Failed to resolve cart owner: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	cart, err := ctrl.Carts.RemoveItem(owner, uint(productID), packLabel)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, "Item removed from cart", ctrl.Carts.Details(cart))
}

// ClearCart empties the caller's cart entirely.
func (ctrl *Controller) ClearCart(c *gin.Context) {
	utils.LogInfo("ClearCart called")

	owner, err := cartOwner(c)
	if err != nil {
		utils.LogError("Failed to resolve cart owner: %v", err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	if err := ctrl.Carts.ClearCart(owner); err != nil {
		utils.LogError("Failed to clear cart: %v", err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	utils.Success(c, "Cart cleared", nil)
}
