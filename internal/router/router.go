package router

import (
	"github.com/dferraz/mercado-backend/config"
	"github.com/dferraz/mercado-backend/internal/app/controller"
	"github.com/dferraz/mercado-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	cartController    *controller.CartController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		cartController:    cartController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "welcome to the Mercado e-commerce API",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	requireSession := r.authMiddleware.RequireSession()

	// Session endpoints
	router.POST("/register", r.authController.Register)
	router.POST("/login", r.authController.Login)
	router.POST("/logout", requireSession, r.authController.Logout)

	api := router.Group("/api")
	{
		// Catalog: reads are public, writes require a session
		api.GET("/products", r.productController.ListProducts)
		api.GET("/products/:id", r.productController.GetProduct)
		api.GET("/products/export", requireSession, r.productController.ExportProducts)
		api.POST("/products/add", requireSession, r.productController.CreateProduct)
		api.PUT("/update/:id", requireSession, r.productController.UpdateProduct)
		api.DELETE("/products/delete/:id", requireSession, r.productController.DeleteProduct)

		// Cart: always scoped to the authenticated principal
		cart := api.Group("/cart")
		cart.Use(requireSession)
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/add/:productId", r.cartController.AddToCart)
			cart.DELETE("/remove/:productId", r.cartController.RemoveFromCart)
			cart.POST("/checkout", r.cartController.Checkout)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
