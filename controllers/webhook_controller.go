package controllers

import (
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-gonic/gin"
)

// RazorpayWebhook receives asynchronous gateway events. The signature is
// checked over the raw body before anything is parsed; only a signature
// failure is rejected. Unknown orders and unhandled events are acknowledged so
// the gateway stops retrying.
func (ctrl *Controller) RazorpayWebhook(c *gin.Context) {
	utils.LogInfo("RazorpayWebhook called")

	rawBody, err := c.GetRawData()
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Invalid webhook body", nil)
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	result, err := ctrl.Payments.HandleWebhook(rawBody, signature)
	if err != nil {
		utils.LogError("Webhook rejected: %v", err)
		utils.HandleServiceError(c, err)
		return
	}

	utils.LogInfo("Webhook %s processed, handled=%t", result.Event, result.Handled)
	utils.Success(c, "Webhook processed", result)
}
