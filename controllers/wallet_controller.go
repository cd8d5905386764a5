package controllers

import (
	"github.com/Aravind-733/NutriKart/services"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// GetWallet returns the user's coin balance and lifetime counters. A wallet is
// lazily created on first read so every user always has one.
func (ctrl *Controller) GetWallet(c *gin.Context) {
	utils.LogInfo("GetWallet called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	wallet, err := services.GetOrCreateWallet(ctrl.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", nil)
		return
	}

	utils.Success(c, "Wallet retrieved", gin.H{
		"balance":           wallet.Balance,
		"lifetime_earned":   wallet.LifetimeEarned,
		"lifetime_redeemed": wallet.LifetimeRedeemed,
		"coin_value":        1.0 / utils.CoinsPerCurrencyUnit,
	})
}
