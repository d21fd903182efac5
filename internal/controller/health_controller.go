package controller

import (
	"net/http"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB  *gorm.DB
	Agg *service.AggregationService
}

func NewHealthController(db *gorm.DB, agg *service.AggregationService) *HealthController {
	return &HealthController{DB: db, Agg: agg}
}

// @Summary Health check
// @Description Reports database reachability and any courses whose derived
// @Description statistics are known to be stale.
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	stale := c.Agg.StaleCourses()

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
		},
		"staleAggregates": stale,
	})
}
