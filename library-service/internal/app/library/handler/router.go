package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nowherelibrary/pkg/logger"
	"nowherelibrary/pkg/metrics"
)

const serviceName = "library-service"

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Books   *BookHandler
	Reviews *ReviewHandler
	Orders  *OrderHandler
	Users   *UserHandler
	Health  *HealthHandler
}

func SetupRoutes(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))
	router.Use(cors.New(corsConfig()))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Nowhere Library is running")
	})
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	books := router.Group("/books")
	{
		books.GET("", h.Books.ListBooks)
		books.GET("/:id", h.Books.GetBook)
		books.POST("/add", h.Books.AddBook)
		books.DELETE("/:id", h.Books.DeleteBook)
	}

	reviews := router.Group("/reviews")
	{
		reviews.GET("", h.Reviews.ListReviews)
		reviews.POST("/add", h.Reviews.AddReview)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", h.Orders.ListOrders)
		orders.GET("/user", h.Orders.ListUserOrders)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.POST("/add", h.Orders.PlaceOrder)
		orders.PUT("/:id", h.Orders.UpdateOrder)
		orders.DELETE("/:id", h.Orders.DeleteOrder)
	}

	users := router.Group("/users")
	{
		users.POST("", h.Users.AddUser)
		users.PUT("", h.Users.UpsertUser)
		users.GET("/:email", h.Users.GetAdminStatus)
		users.PUT("/admin/:email", h.Users.PromoteToAdmin)
	}

	return router
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", logger.RequestIDHeader)
	cfg.ExposeHeaders = []string{logger.RequestIDHeader}
	return cfg
}
