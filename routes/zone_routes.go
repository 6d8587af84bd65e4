package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/controllers"
)

func SetupZoneRoutes(protected *gin.RouterGroup, zoneController *controllers.ZoneController) {
	zones := protected.Group("/zones")
	{
		zones.GET("", zoneController.ListZones)
		zones.POST("", zoneController.CreateZone)
		zones.GET("/:id", zoneController.GetZone)
		zones.PUT("/:id", zoneController.UpdateZone)
		zones.DELETE("/:id", zoneController.DeleteZone)
	}
}
