package controllers

import (
	"fmt"

	"github.com/Aravind-733/NutriKart/models"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// SpinWheel runs one spin of the reward wheel for the authenticated user.
func (ctrl *Controller) SpinWheel(c *gin.Context) {
	utils.LogInfo("SpinWheel called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	result, err := ctrl.Rewards.SpinWheel(user.ID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		utils.LogError("Spin failed for user %d: %v", user.ID, err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.Success(c, fmt.Sprintf("Congratulations! You won %d coins!", result.Coins), result)
}

// GetSpinStatus reports how many spins the user has left today.
func (ctrl *Controller) GetSpinStatus(c *gin.Context) {
	utils.LogInfo("GetSpinStatus called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	left, err := ctrl.Rewards.SpinsRemaining(user.ID)
	if err != nil {
		utils.LogError("Failed to get spin status for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get spin status", nil)
		return
	}

	utils.Success(c, "Spin status retrieved", gin.H{
		"spins_left":  left,
		"daily_limit": ctrl.Cfg.DailySpinLimit,
	})
}

// GetSpinHistory lists the user's reward grants, newest first.
func (ctrl *Controller) GetSpinHistory(c *gin.Context) {
	utils.LogInfo("GetSpinHistory called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	pagination := utils.NewPagination(c)
	query := ctrl.DB.Model(&models.SpinHistory{}).Where("user_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count spin history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get spin history", nil)
		return
	}
	pagination.SetTotal(total)

	var history []models.SpinHistory
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&history).Error; err != nil {
		utils.LogError("Failed to fetch spin history for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get spin history", nil)
		return
	}

	entries := make([]gin.H, 0, len(history))
	for _, h := range history {
		entries = append(entries, gin.H{
			"reward_coins": h.RewardCoins,
			"spin_type":    h.SpinType,
			"created_at":   h.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.SendPaginatedResponse(c, entries, pagination)
}
