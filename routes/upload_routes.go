package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/zone-image", uploadController.GetZoneImageURL)
		uploads.DELETE("/zone-image/:key", uploadController.DeleteZoneImage)
	}
}
