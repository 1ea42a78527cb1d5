package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pekmah/fua-laundry-api/controllers"
	"github.com/pekmah/fua-laundry-api/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	orderCtrl := controllers.NewOrderController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for signup/login
	public := r.Group("/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/signup", userCtrl.Signup)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// LAUNDRY CATEGORIES
	auth.GET("/laundry/categories", categoryCtrl.GetAllCategories)
	auth.POST("/laundry/categories", categoryCtrl.CreateCategory)
	auth.GET("/laundry/categories/:cat_id", categoryCtrl.GetCategoryByID)
	auth.PATCH("/laundry/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/laundry/categories/:cat_id", categoryCtrl.DeleteCategory)

	// ORDERS
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/report", orderCtrl.GetOrderReport)
	auth.GET("/orders/:order_number", orderCtrl.GetOrderByNumber)
	auth.POST("/orders/:order_number/payment", orderCtrl.MakePayment)
	auth.PUT("/orders/:order_number/status", orderCtrl.UpdateStatus)

	// Item/payment projections are addressed by the numeric order id
	auth.GET("/orders/:order_number/laundry-items", orderCtrl.GetLaundryItems)
	auth.GET("/orders/:order_number/payments", orderCtrl.GetOrderPayments)

	return r
}
