package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/config"
)

type GeocodeController struct {
	Geocoder *config.GoogleGeocoder
}

type GeocodeQuery struct {
	Query string `form:"query" binding:"required"`
}

func NewGeocodeController(geocoder *config.GoogleGeocoder) *GeocodeController {
	return &GeocodeController{Geocoder: geocoder}
}

// Geocode resolves a free-form location query to an address and coordinates,
// for pre-filling the zone creation form.
func (gc *GeocodeController) Geocode(c *gin.Context) {
	if gc.Geocoder == nil {
		c.Error(apperrors.NewInternal("Geocoding is not configured"))
		return
	}

	var query GeocodeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	result, err := gc.Geocoder.Geocode(c.Request.Context(), query.Query)
	if err != nil {
		c.Error(apperrors.NewNotFound("No result for this location").WithCause(err))
		return
	}

	respond(c, http.StatusOK, result)
}
