package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RatingController struct {
	RatingService *service.RatingService
}

func NewRatingController(ratingService *service.RatingService) *RatingController {
	return &RatingController{RatingService: ratingService}
}

// @Summary Submit a rating for a course
// @Description One rating per learner per course; a second submission fails.
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Param body body service.RatingRequest true "rating payload"
// @Success 201 {object} util.Response
// @Router /api/courses/{courseId}/ratings [post]
func (c *RatingController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var req service.RatingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rating, err := c.RatingService.Submit(ctx.Request.Context(), claims.UserID, courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, rating)
}

// @Summary Update the learner's rating in place
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Param body body service.RatingRequest true "rating payload"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/ratings [put]
func (c *RatingController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var req service.RatingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rating, err := c.RatingService.Update(ctx.Request.Context(), claims.UserID, courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, rating)
}

// @Summary Delete the learner's rating
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/ratings [delete]
func (c *RatingController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	if err := c.RatingService.Delete(ctx.Request.Context(), claims.UserID, courseID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{})
}

// @Summary List a course's reviews with the rating aggregate
// @Tags ratings
// @Produce json
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/ratings [get]
func (c *RatingController) List(ctx *gin.Context) {
	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	stats, err := c.RatingService.ListForCourse(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
