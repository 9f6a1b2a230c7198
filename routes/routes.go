package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/auth"
	addressControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/address"
	adminController "github.com/parthsavaliya1/VADI-BACKEND/controllers/admin"
	cartControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/cart"
	orderControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/order"
	paymentControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/payment"
	productcontroller "github.com/parthsavaliya1/VADI-BACKEND/controllers/product"
	reviewControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/review"
	userControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/user"
	"github.com/parthsavaliya1/VADI-BACKEND/events"
	"github.com/parthsavaliya1/VADI-BACKEND/middleware"
	"github.com/parthsavaliya1/VADI-BACKEND/sms"
)

// SetupRoutes wires every endpoint onto the engine. Catalog reads are public,
// cart/order/payment/address/profile run behind ValidateToken, and catalog
// writes plus fulfilment behind ValidateAdmin.
func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, sender sms.Sender, producer *events.Producer) {
	// Auth
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", auth.Signup(db))
		authGroup.POST("/login", auth.Login(db))
		authGroup.POST("/send-otp", auth.SendOTP(rdb, sender))
		authGroup.POST("/verify-otp", auth.VerifyOTP(db, rdb))
	}

	// Catalog reads
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db, rdb))
	r.GET("/products/:id/similar", productcontroller.GetSimilarProducts(db))
	r.GET("/products/:id/reviews", reviewControllers.GetProductReviews(db))
	r.GET("/categories", productcontroller.GetCategories(db))
	r.GET("/categories/:id", productcontroller.GetCategoryByID(db))

	// Catalog writes
	catalogAdmin := r.Group("/", middleware.ValidateAdmin)
	{
		catalogAdmin.POST("/products", productcontroller.CreateProduct(db))
		catalogAdmin.PUT("/products/:id", productcontroller.UpdateProduct(db, rdb))
		catalogAdmin.DELETE("/products/:id", productcontroller.DeleteProduct(db, rdb, false))
		catalogAdmin.DELETE("/products/:id/hard", productcontroller.DeleteProduct(db, rdb, true))
		catalogAdmin.POST("/products/bulk-update", productcontroller.BulkUpdateProducts(db, rdb))
		catalogAdmin.POST("/products/upload-image", productcontroller.UploadImage())
		catalogAdmin.POST("/products/:id/variants", productcontroller.AddVariant(db, rdb))
		catalogAdmin.PUT("/products/:id/variants/:variantId", productcontroller.UpdateVariant(db, rdb))
		catalogAdmin.DELETE("/products/:id/variants/:variantId", productcontroller.DeleteVariant(db, rdb))
		catalogAdmin.PATCH("/products/variants/bulk-stock", productcontroller.BulkUpdateStock(db))

		catalogAdmin.POST("/categories", productcontroller.CreateCategory(db))
		catalogAdmin.PUT("/categories/:id", productcontroller.UpdateCategory(db))
		catalogAdmin.DELETE("/categories/:id", productcontroller.DeleteCategory(db))
		catalogAdmin.PUT("/categories/reorder", productcontroller.ReorderCategories(db))
		catalogAdmin.GET("/categories/:id/stats", productcontroller.CategoryStats(db))
	}

	// Profile
	profile := r.Group("/", middleware.ValidateToken)
	{
		profile.GET("/profile", userControllers.GetProfile(db))
		profile.PUT("/profile", userControllers.UpdateProfile(db))
	}

	// Addresses
	addresses := r.Group("/addresses", middleware.ValidateToken)
	{
		addresses.POST("", addressControllers.CreateAddress(db))
		addresses.GET("", addressControllers.GetAddresses(db))
		addresses.GET("/nearby", addressControllers.GetNearbyAddresses(db))
		addresses.PUT("/:id", addressControllers.UpdateAddress(db))
		addresses.PUT("/:id/default", addressControllers.SetDefaultAddress(db))
		addresses.DELETE("/:id", addressControllers.DeleteAddress(db))
	}

	// Cart
	cart := r.Group("/cart", middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.GET("/summary", cartControllers.GetCartSummary(db))
		cart.POST("/add", cartControllers.AddItem(db))
		cart.PUT("/update", cartControllers.UpdateItem(db))
		cart.DELETE("/remove", cartControllers.RemoveItem(db))
		cart.DELETE("/clear", cartControllers.ClearCart(db))
		cart.POST("/validate", cartControllers.ValidateCart(db))
	}

	// Orders
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		orders.POST("", orderControllers.PlaceOrder(db, producer))
		orders.GET("", orderControllers.GetOrders(db))
		orders.GET("/:id", orderControllers.GetOrderByID(db))
		orders.POST("/:id/cancel", orderControllers.CancelOrder(db, producer))
		orders.POST("/:id/verify-payment", orderControllers.VerifyPayment(db, producer))
	}
	r.PUT("/orders/:id/status", middleware.ValidateAdmin, orderControllers.UpdateOrderStatus(db, producer))
	r.GET("/orders/ws", middleware.ValidateAdmin, orderControllers.HandleOrderSocket)

	// Payments
	payments := r.Group("/payments", middleware.ValidateToken)
	{
		payments.GET("/:id", paymentControllers.GetPayment(db))
		payments.GET("/order/:orderId", paymentControllers.GetPaymentByOrder(db))
		payments.POST("/:id/initiate", paymentControllers.InitiatePayment(db))
		payments.POST("/:id/fail", paymentControllers.FailPayment(db))
	}
	r.POST("/payments/:id/refund", middleware.ValidateAdmin, paymentControllers.RefundPayment(db))
	r.POST("/payments/:id/collect-cod", middleware.ValidateAdmin, paymentControllers.CollectCod(db))

	// Reviews
	reviews := r.Group("/", middleware.ValidateToken)
	{
		reviews.POST("/products/:id/reviews", reviewControllers.CreateReview(db))
		reviews.DELETE("/reviews/:id", reviewControllers.DeleteReview(db))
	}
	r.PATCH("/reviews/:id/toggle", middleware.ValidateAdmin, reviewControllers.ToggleReview(db))

	// Admin
	admin := r.Group("/api/admin")
	{
		admin.POST("/register", adminController.Register(db))
		admin.POST("/login", adminController.Login(db))

		protected := admin.Group("/", middleware.ValidateAdmin)
		{
			protected.GET("/users", userControllers.ListUsers(db))
			protected.GET("/orders", orderControllers.GetOrders(db))
			protected.GET("/orders/:id", orderControllers.GetOrderByID(db))
			protected.POST("/orders/:id/cancel", orderControllers.CancelOrder(db, producer))
		}
	}
}
