package routes

import (
	"github.com/Aravind-733/NutriKart/controllers"
	"github.com/Aravind-733/NutriKart/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with all middleware and route groups.
func SetupRouter(ctrl *controllers.Controller) *gin.Engine {
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.CORSMiddleware())

	store := cookie.NewStore([]byte(ctrl.Cfg.SessionSecret))
	router.Use(sessions.Sessions("nutrikart_session", store))

	router.GET("/health", func(c *gin.Context) {
		utils.Success(c, "OK", nil)
	})

	// Gateway webhook: signature-verified, no auth.
	router.POST("/webhooks/payment", ctrl.RazorpayWebhook)

	registerUserRoutes(router, ctrl)
	registerAdminRoutes(router, ctrl)

	return router
}
