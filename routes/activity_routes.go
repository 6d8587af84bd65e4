package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/controllers"
)

func SetupActivityRoutes(protected *gin.RouterGroup, activityController *controllers.ActivityController) {
	activities := protected.Group("/activities")
	{
		// The statistics route must be registered alongside the list route;
		// gin treats it as a distinct static path, not an :id match.
		activities.GET("", activityController.ListActivities)
		activities.POST("", activityController.CreateActivity)
		activities.GET("/statistics", activityController.GetStatistics)
	}
}
