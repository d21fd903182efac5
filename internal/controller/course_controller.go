package controller

import (
	"os"
	"strconv"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	Enrollment    *service.EnrollmentService
	Cascade       *service.CascadeService
}

func NewCourseController(
	courseService *service.CourseService,
	enrollment *service.EnrollmentService,
	cascade *service.CascadeService,
) *CourseController {
	return &CourseController{
		CourseService: courseService,
		Enrollment:    enrollment,
		Cascade:       cascade,
	}
}

// @Summary Create a course
// @Tags courses
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "course title"
// @Param description formData string true "course description"
// @Param category formData string true "course category"
// @Param thumbnail formData file false "thumbnail image"
// @Success 201 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseCreateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	thumbnailPath := ""
	if file, err := ctx.FormFile("thumbnail"); err == nil {
		path, err := saveUpload(ctx, file)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer os.Remove(path)
		thumbnailPath = path
	}

	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), claims.UserID, req, thumbnailPath)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary Update course metadata
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId} [patch]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var req service.CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Request.Context(), courseID, claims.UserID, claims.Role, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Publish or unpublish a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/published [put]
func (c *CourseController) SetPublished(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var req struct {
		IsPublished *bool `json:"isPublished" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.SetPublished(ctx.Request.Context(), courseID, claims.UserID, claims.Role, *req.IsPublished)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary Delete a course and all of its content
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	if err := c.Cascade.DeleteCourse(ctx.Request.Context(), courseID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{})
}

// @Summary List published courses
// @Tags courses
// @Produce json
// @Param category query string false "category filter"
// @Param level query string false "level filter"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) ListPublished(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	category := ctx.Query("category")
	level := ctx.Query("level")

	courses, total, err := c.CourseService.ListPublished(category, level, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// @Summary List the instructor's own courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/courses/mine [get]
func (c *CourseController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListByInstructor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary Get a course with its sections and gated lectures
// @Tags courses
// @Produce json
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) GetDetail(ctx *gin.Context) {
	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var requesterID *uint
	var role model.UserRole
	if claims := util.GetUserFromContext(ctx); claims != nil {
		requesterID = &claims.UserID
		role = claims.Role
	}

	detail, err := c.CourseService.GetCourseDetail(ctx.Request.Context(), courseID, requesterID, role)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary Enroll a learner in a course
// @Description Called by the payment collaborator after a confirmed purchase,
// @Description or directly by an instructor/admin.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	// Instructors/admins may enroll another learner; students enroll
	// themselves (after the payment collaborator confirmed the purchase).
	userID := claims.UserID
	var req struct {
		UserID uint `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err == nil && req.UserID != 0 {
		if claims.Role != model.Instructor && claims.Role != model.Admin {
			util.Forbidden(ctx)
			return
		}
		userID = req.UserID
	}

	if err := c.Enrollment.EnrollStudent(courseID, userID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"courseId": courseID, "userId": userID})
}

func parseID(ctx *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+param)
		return 0, err
	}
	return uint(id), nil
}
