package routes

import (
	"github.com/Aravind-733/NutriKart/controllers"
	"github.com/Aravind-733/NutriKart/middleware"
	"github.com/gin-gonic/gin"
)

func registerUserRoutes(router *gin.Engine, ctrl *controllers.Controller) {
	v1 := router.Group("/v1")

	// Public
	v1.POST("/register", ctrl.Register)
	v1.POST("/login", ctrl.Login)
	v1.GET("/products", ctrl.ListProducts)
	v1.GET("/products/:product_id", ctrl.GetProductDetails)
	v1.GET("/products/:product_id/nutrition-report", ctrl.DownloadNutritionReport)

	// Cart works for guests and users alike; a valid token just binds the
	// cart to the account.
	cart := v1.Group("/cart")
	cart.Use(middleware.OptionalAuth(ctrl.DB, ctrl.Cfg.JWTSecret))
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("/items", ctrl.AddToCart)
		cart.PUT("/items", ctrl.UpdateCartItem)
		cart.DELETE("/items/:product_id", ctrl.RemoveFromCart)
		cart.DELETE("", ctrl.ClearCart)
	}

	// Authenticated
	user := v1.Group("")
	user.Use(middleware.AuthMiddleware(ctrl.DB, ctrl.Cfg.JWTSecret))
	{
		user.POST("/spin", ctrl.SpinWheel)
		user.GET("/spin/status", ctrl.GetSpinStatus)
		user.GET("/spin/history", ctrl.GetSpinHistory)
		user.GET("/wallet", ctrl.GetWallet)

		user.POST("/cart/coins", ctrl.ApplyCoins)
		user.GET("/checkout", ctrl.GetCheckoutSummary)
		user.POST("/orders", ctrl.PlaceOrder)
		user.GET("/orders", ctrl.ListOrders)
		user.GET("/orders/:order_id", ctrl.GetOrderDetails)
		user.GET("/orders/:order_id/invoice", ctrl.DownloadInvoice)

		user.POST("/orders/:order_id/payment", ctrl.InitiatePayment)
		user.POST("/payment/verify", ctrl.VerifyPayment)

		user.POST("/wishlist", ctrl.AddToWishlist)
		user.GET("/wishlist", ctrl.GetWishlist)
		user.DELETE("/wishlist/:product_id", ctrl.RemoveFromWishlist)

		user.POST("/addresses", ctrl.AddAddress)
		user.GET("/addresses", ctrl.ListAddresses)
		user.DELETE("/addresses/:address_id", ctrl.DeleteAddress)
	}
}
