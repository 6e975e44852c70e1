package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/WeeklyPrayers/controllers"
	"github.com/WeeklyPrayers/initializers"
	"github.com/WeeklyPrayers/middlewares"
	"github.com/WeeklyPrayers/models"
	"github.com/WeeklyPrayers/services"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectDB()
	services.InitEmailService()
}

func main() {
	router := gin.Default()

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	api := router.Group("/api")

	api.GET("/health", controllers.HealthCheck)

	// auth
	api.POST("/auth/login", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.UserLogin)
	api.GET("/auth/me", middlewares.CheckAuth, controllers.GetCurrentUser)
	api.POST("/auth/logout", middlewares.CheckAuth, controllers.UserLogout)

	// read views; staff additionally see pending requests and moderation data
	api.GET("/prayers", middlewares.OptionalAuth, controllers.GetPrayers)
	api.GET("/prayers/week/:week", middlewares.OptionalAuth, controllers.GetPrayersByWeek)

	// public intake form
	api.POST("/prayers", middlewares.RateLimitMiddleware(2, 2, getKey), middlewares.OptionalAuth, controllers.SubmitPublicPrayer)

	// weekly "I prayed" counter
	api.GET("/counts", controllers.GetCurrentCount)
	api.GET("/counts/week/:week", controllers.GetWeekCount)
	api.POST("/counts/increment", middlewares.RateLimitMiddleware(5, 5, getKey), controllers.IncrementCount)

	// embeddable widget
	embed := api.Group("/embed")
	embed.Use(controllers.EmbedCORS)
	{
		embed.GET("/data", controllers.GetEmbedData)
		embed.GET("/widget.js", controllers.GetEmbedWidget)
		embed.GET("/iframe", controllers.GetEmbedIframe)
	}

	auth := api.Group("/")
	auth.Use(middlewares.CheckAuth)
	auth.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		// staff routes
		worker := auth.Group("/")
		worker.Use(middlewares.RequireRole(models.RoleWorker))
		{
			worker.POST("/prayers/staff", controllers.SubmitStaffPrayer)
			worker.PUT("/prayers/:prayer_id", controllers.UpdatePrayer)
			worker.DELETE("/prayers/:prayer_id", controllers.DeletePrayer)
			worker.POST("/prayers/:prayer_id/approve", controllers.ApprovePrayer)

			worker.GET("/export/intercession", controllers.ExportIntercession)
		}

		// admin only routes
		admin := auth.Group("/")
		admin.Use(middlewares.RequireRole(models.RoleAdmin))
		{
			admin.POST("/prayers/pastor", controllers.SubmitPastorPrayer)

			admin.GET("/users", controllers.GetUsers)
			admin.GET("/users/:user_id", controllers.GetUser)
			admin.POST("/users", controllers.UserSignup)
			admin.PUT("/users/:user_id/role", controllers.UpdateUserRole)
		}
	}

	if err := router.Run(); err != nil {
		log.Fatal(err)
	}
}
