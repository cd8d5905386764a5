package controllers

import (
	"github.com/Aravind-733/NutriKart/services"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// ApplyCoins applies or removes a coin discount on the authenticated user's
// cart. The usable amount is always computed server-side; the client can only
// request less, never more.
func (ctrl *Controller) ApplyCoins(c *gin.Context) {
	utils.LogInfo("ApplyCoins called")
	user, ok := currentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not found")
		return
	}

	var req struct {
		Action string `json:"action" binding:"required,oneof=apply remove"`
		Coins  int64  `json:"coins"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	result, err := ctrl.Carts.ApplyCoins(user.ID, req.Action, req.Coins)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Coins applied"
	if req.Action == services.CoinActionRemove {
		message = "Coins removed"
	}
	utils.Success(c, message, result)
}
