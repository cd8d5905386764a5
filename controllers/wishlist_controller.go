package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// AddToWishlist saves a product to the user's wishlist. Adding an already
// wishlisted product is a no-op, not an error.
func (ctrl *Controller) AddToWishlist(c *gin.Context) {
	utils.LogInfo("AddToWishlist called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var product models.Product
	if err := ctrl.DB.First(&product, req.ProductID).Error; err != nil || !product.IsActive {
		utils.NotFound(c, "Product not found")
		return
	}

	var existing models.Wishlist
	err := ctrl.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&existing).Error
	if err == nil {
		utils.Success(c, "Product already in wishlist", nil)
		return
	}

	entry := models.Wishlist{UserID: user.ID, ProductID: req.ProductID}
	if err := ctrl.DB.Create(&entry).Error; err != nil {
		utils.LogError("Failed to add wishlist entry for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to add to wishlist", nil)
		return
	}

	utils.Created(c, "Added to wishlist", gin.H{"product_id": req.ProductID})
}

// GetWishlist lists the user's wishlisted products that are still active.
func (ctrl *Controller) GetWishlist(c *gin.Context) {
	utils.LogInfo("GetWishlist called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var entries []models.Wishlist
	if err := ctrl.DB.Where("user_id = ?", user.ID).
		Preload("Product.Packs").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		utils.LogError("Failed to fetch wishlist for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wishlist", nil)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		if entry.Product.ID == 0 || !entry.Product.IsActive {
			continue
		}
		items = append(items, gin.H{
			"product_id": entry.ProductID,
			"name":       entry.Product.Name,
			"brand":      entry.Product.Brand,
			"image_url":  entry.Product.ImageURL,
			"price":      entry.Product.Price,
			"packs":      entry.Product.Packs,
			"added_at":   entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, "Wishlist retrieved", gin.H{"items": items, "count": len(items)})
}

// RemoveFromWishlist drops a product from the user's wishlist.
func (ctrl *Controller) RemoveFromWishlist(c *gin.Context) {
	utils.LogInfo("RemoveFromWishlist called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid product id", nil)
		return
	}

	res := ctrl.DB.Where("user_id = ? AND product_id = ?", user.ID, productID).Delete(&models.Wishlist{})
	if res.Error != nil {
		utils.LogError("Failed to remove wishlist entry for user %d: %v", user.ID, res.Error)
		utils.InternalServerError(c, "Failed to remove from wishlist", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Product not in wishlist")
		return
	}

	utils.Success(c, "Removed from wishlist", nil)
}
