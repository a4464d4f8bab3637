package routes

import (
	"net/http"

	"catalog-backend/handlers"
	"catalog-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups the route targets; AuthLimiter throttles login and registration when set.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Category    *handlers.CategoryHandler
	Subcategory *handlers.SubcategoryHandler
	Product     *handlers.ProductHandler
	Asset       *handlers.AssetHandler
	AuthLimiter *middleware.RateLimiter
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		if h.AuthLimiter != nil {
			auth.Use(h.AuthLimiter.Middleware())
		}
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)

		// Public product routes; static segments before :id
		api.GET("/products", h.Product.GetProducts)
		api.GET("/products/search", h.Product.SearchProducts)
		api.GET("/products/export", h.Product.GetProductsExport)
		api.GET("/products/:id", h.Product.GetProduct)

		api.GET("/categories", h.Category.GetCategories)
		api.GET("/categories/:id", h.Category.GetCategory)

		api.GET("/subcategories", h.Subcategory.GetSubcategories)
		api.GET("/subcategories/:id", h.Subcategory.GetSubcategory)
		api.GET("/subcategories/:id/products", h.Subcategory.GetSubcategoryProducts)

		api.GET("/assets/:key", h.Asset.GetAsset)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/users/me", h.Auth.GetProfile)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Catalog management, multipart with optional file field "image"
		admin.POST("/categories", h.Category.CreateCategory)
		admin.PUT("/categories/:id", h.Category.UpdateCategory)
		admin.DELETE("/categories/:id", h.Category.DeleteCategory)

		admin.POST("/subcategories", h.Subcategory.CreateSubcategory)
		admin.PUT("/subcategories/:id", h.Subcategory.UpdateSubcategory)
		admin.DELETE("/subcategories/:id", h.Subcategory.DeleteSubcategory)

		admin.POST("/products", h.Product.CreateProduct)
		admin.PUT("/products/:id", h.Product.UpdateProduct)
		admin.DELETE("/products/:id", h.Product.DeleteProduct)

		// User management
		admin.GET("/users", h.Auth.ListUsers)
		admin.POST("/users", h.Auth.CreateUser)
		admin.GET("/users/by-username/:username", h.Auth.GetUserByUsername)
		admin.DELETE("/users/by-username/:username", h.Auth.DeleteUserByUsername)
		admin.GET("/users/:id", h.Auth.GetUser)
		admin.PUT("/users/:id", h.Auth.UpdateUser)
		admin.DELETE("/users/:id", h.Auth.DeleteUser)

		admin.POST("/assets/sweep", h.Asset.SweepOrphans)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
