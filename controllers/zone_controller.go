package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/repositories"
	"github.com/zone-app/api-go/services"
	"github.com/zone-app/api-go/utils"
)

type ZoneController struct {
	Zones *services.ZoneService
}

type ZoneListQuery struct {
	Filter string `form:"filter"`
	Sort   string `form:"sort" binding:"omitempty,oneof=name date radius"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

func NewZoneController(zones *services.ZoneService) *ZoneController {
	return &ZoneController{Zones: zones}
}

func (zc *ZoneController) ListZones(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var query ZoneListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	filters := repositories.ZoneFilters{
		Icon:   query.Filter,
		SortBy: query.Sort,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if filters.Limit <= 0 {
		filters.Limit = services.DefaultPageSize
	}

	zones, total, err := zc.Zones.GetZones(user.UserID, filters)
	if err != nil {
		c.Error(err)
		return
	}

	respondList(c, zones, filters.Limit, filters.Offset, total)
}

func (zc *ZoneController) GetZone(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	zoneID, err := parseID(c.Param("id"))
	if err != nil {
		c.Error(apperrors.NewValidation("Invalid zone id"))
		return
	}

	zone, err := zc.Zones.GetZoneByID(zoneID, user.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, zone)
}

func (zc *ZoneController) CreateZone(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var input services.CreateZoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	zone, err := zc.Zones.CreateZone(user.UserID, input)
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusCreated, zone)
}

func (zc *ZoneController) UpdateZone(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	zoneID, err := parseID(c.Param("id"))
	if err != nil {
		c.Error(apperrors.NewValidation("Invalid zone id"))
		return
	}

	var input services.UpdateZoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	zone, err := zc.Zones.UpdateZone(zoneID, user.UserID, input)
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, zone)
}

func (zc *ZoneController) DeleteZone(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	zoneID, err := parseID(c.Param("id"))
	if err != nil {
		c.Error(apperrors.NewValidation("Invalid zone id"))
		return
	}

	if err := zc.Zones.DeleteZone(zoneID, user.UserID); err != nil {
		c.Error(err)
		return
	}

	respondMessage(c, "Zone deleted successfully")
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
