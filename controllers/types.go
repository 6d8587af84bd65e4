package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/middleware"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
	RequestID  string          `json:"requestId"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, StandardResponse{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
	})
}

func respondList(c *gin.Context, data interface{}, limit, offset int, total int64) {
	if limit <= 0 {
		limit = 1
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    data,
		Pagination: &PaginationMeta{
			Page:       offset/limit + 1,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
		RequestID: middleware.GetRequestID(c),
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, StandardResponse{
		Success:   true,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}
