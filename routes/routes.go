package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/config"
	"github.com/zone-app/api-go/controllers"
	"github.com/zone-app/api-go/middleware"
	"github.com/zone-app/api-go/repositories"
	"github.com/zone-app/api-go/services"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())

	zoneRepo := repositories.NewZoneRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	userRepo := repositories.NewUserRepository(db)

	zoneService := services.NewZoneService(zoneRepo)
	activityService := services.NewActivityService(activityRepo, zoneRepo, nil)

	authController := controllers.NewAuthController(userRepo, config.NewGoogleConfig())
	zoneController := controllers.NewZoneController(zoneService)
	activityController := controllers.NewActivityController(activityService)
	uploadController := controllers.NewUploadController()
	geocodeController := controllers.NewGeocodeController(config.NewGoogleGeocoder())

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/refresh", authController.RefreshToken)
		public.POST("/auth/google", authController.GoogleLogin)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)
		protected.GET("/geocode", geocodeController.Geocode)

		SetupZoneRoutes(protected, zoneController)
		SetupActivityRoutes(protected, activityController)
		SetupUploadRoutes(protected, uploadController)
	}
}
