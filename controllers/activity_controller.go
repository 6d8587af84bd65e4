package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/repositories"
	"github.com/zone-app/api-go/services"
	"github.com/zone-app/api-go/utils"
)

type ActivityController struct {
	Activities *services.ActivityService
}

type ActivityListQuery struct {
	ZoneID uint   `form:"zoneId"`
	Type   string `form:"type" binding:"omitempty,oneof=enter exit"`
	Sort   string `form:"sort" binding:"omitempty,oneof=recent oldest zone"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

type StatisticsQuery struct {
	ZoneID uint `form:"zoneId"`
}

func NewActivityController(activities *services.ActivityService) *ActivityController {
	return &ActivityController{Activities: activities}
}

func (ac *ActivityController) ListActivities(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var query ActivityListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	filters := repositories.ActivityFilters{
		ZoneID: query.ZoneID,
		Type:   query.Type,
		SortBy: query.Sort,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if filters.Limit <= 0 {
		filters.Limit = services.DefaultPageSize
	}

	activities, total, err := ac.Activities.GetActivities(user.UserID, filters)
	if err != nil {
		c.Error(err)
		return
	}

	respondList(c, activities, filters.Limit, filters.Offset, total)
}

func (ac *ActivityController) CreateActivity(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var input services.CreateActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	activity, err := ac.Activities.CreateActivity(user.UserID, input)
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusCreated, activity)
}

func (ac *ActivityController) GetStatistics(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var query StatisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	stats, err := ac.Activities.GetStatistics(c.Request.Context(), user.UserID, query.ZoneID)
	if err != nil {
		c.Error(err)
		return
	}

	respond(c, http.StatusOK, stats)
}
