// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/phishnheat/backend/config"
	"github.com/phishnheat/backend/controller"
	"github.com/phishnheat/backend/middleware"
	"github.com/phishnheat/backend/service"
)

func SetupRouter(
	controllers *controller.Controllers,
	services *service.Services,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetString("server.frontendOrigin")},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")

	controllers.Phishing.RegisterRoutes(api)
	controllers.Analytics.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Phish 'N Heat API",
			"docs":    "/api/phishing",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"cache":            services.Phishing.CacheInfo(),
			"budget_remaining": services.Phishing.BudgetRemaining(),
		})
	})

	return router
}
