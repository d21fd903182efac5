package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	Enrollment      *service.EnrollmentService
}

func NewProgressController(progressService *service.ProgressService, enrollment *service.EnrollmentService) *ProgressController {
	return &ProgressController{ProgressService: progressService, Enrollment: enrollment}
}

type RecordProgressRequest struct {
	LectureID uint `json:"lectureId" binding:"required"`
	WatchTime int  `json:"watchTime"`
	Completed bool `json:"completed"`
}

// @Summary Initialize progress tracking for a course
// @Description Idempotent; a second call returns the existing record even if
// @Description lectures were added to the course in between.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/progress [post]
func (c *ProgressController) Init(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	enrolled, err := c.Enrollment.IsEnrolled(courseID, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !enrolled {
		util.Error(ctx, 403, util.ErrNotEnrolled.Error())
		return
	}

	progress, err := c.ProgressService.InitProgress(claims.UserID, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary Record a watch event for a lecture
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Param body body RecordProgressRequest true "watch event"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/progress [put]
func (c *ProgressController) Record(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var req RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.RecordProgress(claims.UserID, courseID, req.LectureID, req.WatchTime, req.Completed)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary Get the learner's progress for a course
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/progress [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	progress, err := c.ProgressService.GetProgress(claims.UserID, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
