package controllers

import (
	"strconv"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// AddAddress saves a shipping address for the user. The first address, or one
// flagged default, becomes the default.
func (ctrl *Controller) AddAddress(c *gin.Context) {
	utils.LogInfo("AddAddress called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var req struct {
		Name       string `json:"name" binding:"required"`
		Phone      string `json:"phone" binding:"required"`
		Line1      string `json:"line1" binding:"required"`
		Line2      string `json:"line2"`
		City       string `json:"city" binding:"required"`
		State      string `json:"state" binding:"required"`
		Country    string `json:"country" binding:"required"`
		PostalCode string `json:"postal_code" binding:"required"`
		IsDefault  bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var count int64
	ctrl.DB.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count)

	address := models.Address{
		UserID:     user.ID,
		Name:       req.Name,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault || count == 0,
	}

	tx := ctrl.DB.Begin()
	if address.IsDefault {
		if err := tx.Model(&models.Address{}).Where("user_id = ?", user.ID).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to clear default address for user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to add address", nil)
			return
		}
	}
	if err := tx.Create(&address).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create address for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to add address", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit address for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to add address", nil)
		return
	}

	utils.Created(c, "Address added", address)
}

// ListAddresses returns the user's saved addresses, default first.
func (ctrl *Controller) ListAddresses(c *gin.Context) {
	utils.LogInfo("ListAddresses called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var addresses []models.Address
	if err := ctrl.DB.Where("user_id = ?", user.ID).
		Order("is_default DESC, id ASC").Find(&addresses).Error; err != nil {
		utils.LogError("Failed to fetch addresses for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to list addresses", nil)
		return
	}

	utils.Success(c, "Addresses retrieved", addresses)
}

// DeleteAddress removes one of the user's addresses.
func (ctrl *Controller) DeleteAddress(c *gin.Context) {
	utils.LogInfo("DeleteAddress called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	addressID, err := strconv.ParseUint(c.Param("address_id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid address id", nil)
		return
	}

	res := ctrl.DB.Where("id = ? AND user_id = ?", addressID, user.ID).Delete(&models.Address{})
	if res.Error != nil {
		utils.LogError("Failed to delete address %d for user %d: %v", addressID, user.ID, res.Error)
		utils.InternalServerError(c, "Failed to delete address", nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Address not found")
		return
	}

	utils.Success(c, "Address deleted", nil)
}
