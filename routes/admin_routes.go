package routes

import (
	"github.com/Aravind-733/NutriKart/controllers"
	"github.com/Aravind-733/NutriKart/middleware"
	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(router *gin.Engine, ctrl *controllers.Controller) {
	admin := router.Group("/v1/admin")
	admin.Use(middleware.AuthMiddleware(ctrl.DB, ctrl.Cfg.JWTSecret))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/orders", ctrl.AdminListOrders)
		admin.PUT("/orders/:order_id/status", ctrl.AdminUpdateOrderStatus)
		admin.GET("/spin-report", ctrl.AdminDownloadSpinReport)
	}
}
