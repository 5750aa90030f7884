package routes

import (
	"net/http"

	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Profile  *controllers.ProfileController
	User     *controllers.UserController
	Category *controllers.CategoryController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Order    *controllers.OrderController
	Upload   *controllers.UploadController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, accessSecret string) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", ctrl.Auth.Register)
		user.POST("/verify-email", ctrl.Auth.VerifyEmail)
		user.POST("/resend-verification", ctrl.Auth.ResendVerification)
		user.POST("/login", ctrl.Auth.Login)
		user.POST("/refresh-token", ctrl.Auth.RefreshToken)
		user.PUT("/forgot-password", ctrl.Auth.ForgotPassword)
		user.PUT("/verify-forgot-password-otp", ctrl.Auth.VerifyForgotPasswordOTP)
		user.PUT("/reset-password", ctrl.Auth.ResetPassword)
	}

	account := api.Group("/user")
	account.Use(middleware.AuthMiddleware(accessSecret))
	{
		account.POST("/logout", ctrl.Auth.Logout)
		account.GET("/me", ctrl.Profile.Me)
		account.PUT("/edit", ctrl.Profile.Edit)
		account.PUT("/change-password", ctrl.Profile.ChangePassword)
		account.PUT("/upload-avatar", ctrl.Profile.UploadAvatar)
	}

	api.GET("/category", ctrl.Category.GetAllCategories)
	api.GET("/category/:id", ctrl.Category.GetCategoryByID)
	api.GET("/subcategory", ctrl.Category.GetAllSubCategories)
	api.GET("/subcategory/:id", ctrl.Category.GetSubCategoryByID)
	api.GET("/product", ctrl.Product.GetAllProducts)
	api.GET("/product/sale", ctrl.Product.GetSaleProducts)
	api.GET("/product/slug/:slug", ctrl.Product.GetProductBySlug)
	api.GET("/product/:id", ctrl.Product.GetProductByID)

	shop := api.Group("")
	shop.Use(middleware.OptionalAuth(accessSecret))
	{
		shop.POST("/cart/add", ctrl.Cart.AddToCart)
		shop.GET("/cart", ctrl.Cart.GetCart)
		shop.POST("/cart/reset", ctrl.Cart.ResetCart)
		shop.PATCH("/cart/:id", ctrl.Cart.UpdateCartItem)
		shop.DELETE("/cart/:id", ctrl.Cart.RemoveCartItem)

		shop.POST("/order/checkout", ctrl.Order.Checkout)
		shop.POST("/order", ctrl.Order.CreateOrder)
		shop.GET("/order", ctrl.Order.GetMyOrders)
		shop.GET("/order/:id", ctrl.Order.GetMyOrder)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(accessSecret), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", ctrl.Order.GetDashboard)
		admin.GET("/revenue", ctrl.Order.GetRevenue)
		admin.GET("/customers", ctrl.User.GetCustomers)

		admin.POST("/category", ctrl.Category.CreateCategory)
		admin.PUT("/category/:id", ctrl.Category.UpdateCategory)
		admin.DELETE("/category/:id", ctrl.Category.DeleteCategory)

		admin.POST("/subcategory", ctrl.Category.CreateSubCategory)
		admin.PUT("/subcategory/:id", ctrl.Category.UpdateSubCategory)
		admin.DELETE("/subcategory/:id", ctrl.Category.DeleteSubCategory)

		admin.GET("/product", ctrl.Product.AdminGetAllProducts)
		admin.GET("/product/:id", ctrl.Product.AdminGetProductByID)
		admin.POST("/product", ctrl.Product.CreateProduct)
		admin.PUT("/product/:id", ctrl.Product.UpdateProduct)
		admin.DELETE("/product/:id", ctrl.Product.DeleteProduct)
		admin.GET("/products/export", ctrl.Product.ExportProducts)

		admin.POST("/upload", ctrl.Upload.UploadImage)
		admin.POST("/upload/multiple", ctrl.Upload.UploadImages)

		admin.GET("/users", ctrl.User.GetAllUsers)
		admin.GET("/users/:id", ctrl.User.GetUserByID)
		admin.POST("/users", ctrl.User.CreateUser)
		admin.PATCH("/users/:id", ctrl.User.UpdateUser)
		admin.DELETE("/users/:id", ctrl.User.DeleteUser)

		admin.GET("/orders", ctrl.Order.GetAllOrders)
		admin.GET("/orders/feed", ctrl.Order.OrderFeed)
		admin.GET("/orders/:id", ctrl.Order.GetOrderByID)
		admin.PATCH("/orders/:id", ctrl.Order.UpdateOrder)
		admin.DELETE("/orders/:id", ctrl.Order.DeleteOrder)
	}
}
