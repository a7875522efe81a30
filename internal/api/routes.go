package api

import (
	"net/http"
	"time"

	"routeiq/backend/internal/config"
	"routeiq/backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	activityService service.ActivityService,
	routeService service.RouteService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	activityHandler := NewActivityHandler(activityService)
	routeHandler := NewRouteHandler(routeService)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := AuthMiddleware(cfg.JWT.Secret)

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(RateLimitMiddleware(cfg.Auth.RateLimitPerMinute, cfg.Auth.RateLimitBurst))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// The account surface lives under /auth too, but behind the JWT
		// middleware instead of the login rate limiter.
		meGroup := apiGroup.Group("/auth/me")
		meGroup.Use(authMiddleware)
		{
			meGroup.GET("", authHandler.Me)
			meGroup.PUT("", authHandler.UpdateProfile)
			meGroup.GET("/settings", authHandler.GetSettings)
			meGroup.PUT("/settings", authHandler.UpdateSettings)
		}
	}

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}

		workoutGroup := protected.Group("/workouts")
		{
			// Static segments before the :id parameter.
			workoutGroup.GET("/templates", workoutHandler.ListTemplates)
			workoutGroup.POST("/templates", workoutHandler.CreateTemplate)
			workoutGroup.GET("/draft", workoutHandler.GetDraft)
			workoutGroup.PUT("/draft", workoutHandler.SaveDraft)
			workoutGroup.DELETE("/draft", workoutHandler.ClearDraft)
			workoutGroup.GET("/exercises/:id/last-weight", workoutHandler.SuggestWeight)

			workoutGroup.POST("", workoutHandler.LogWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		activityGroup := protected.Group("/activities")
		{
			activityGroup.GET("/stats", activityHandler.GetStats)

			activityGroup.POST("", activityHandler.LogActivity)
			activityGroup.GET("", activityHandler.ListActivities)
			activityGroup.GET("/:id", activityHandler.GetActivity)
			activityGroup.PUT("/:id", activityHandler.UpdateActivity)
			activityGroup.DELETE("/:id", activityHandler.DeleteActivity)
			activityGroup.POST("/:id/track", activityHandler.AttachTrack)
			activityGroup.GET("/:id/track", activityHandler.DownloadTrack)
		}

		routeGroup := protected.Group("/routes")
		{
			routeGroup.GET("/public", routeHandler.BrowsePublicRoutes)

			routeGroup.POST("", routeHandler.CreateRoute)
			routeGroup.GET("", routeHandler.ListRoutes)
			routeGroup.GET("/:id", routeHandler.GetRoute)
			routeGroup.PUT("/:id", routeHandler.UpdateRoute)
			routeGroup.DELETE("/:id", routeHandler.DeleteRoute)
		}
	}
}
