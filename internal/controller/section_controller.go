package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SectionController struct {
	SectionService *service.SectionService
}

func NewSectionController(sectionService *service.SectionService) *SectionController {
	return &SectionController{SectionService: sectionService}
}

// @Summary Create a section under a course
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Param body body service.SectionRequest true "section payload"
// @Success 201 {object} util.Response
// @Router /api/courses/{courseId}/sections [post]
func (c *SectionController) Create(ctx *gin.Context) {
	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	var req service.SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.SectionService.CreateSection(ctx.Request.Context(), courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, section)
}

// @Summary List a course's sections in insertion order
// @Tags sections
// @Produce json
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/sections [get]
func (c *SectionController) List(ctx *gin.Context) {
	courseID, err := parseID(ctx, "courseId")
	if err != nil {
		return
	}

	sections, err := c.SectionService.ListForCourse(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, sections)
}

// @Summary Update a section's title or position
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "section id"
// @Param body body service.SectionRequest true "section payload"
// @Success 200 {object} util.Response
// @Router /api/sections/{sectionId} [put]
func (c *SectionController) Update(ctx *gin.Context) {
	sectionID, err := parseID(ctx, "sectionId")
	if err != nil {
		return
	}

	var req service.SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.SectionService.UpdateSection(ctx.Request.Context(), sectionID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, section)
}

// @Summary Delete a section and its lectures
// @Description A partial failure reports which lectures were deleted so the
// @Description call can be retried.
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "section id"
// @Success 200 {object} util.Response
// @Router /api/sections/{sectionId} [delete]
func (c *SectionController) Delete(ctx *gin.Context) {
	sectionID, err := parseID(ctx, "sectionId")
	if err != nil {
		return
	}

	if err := c.SectionService.DeleteSection(ctx.Request.Context(), sectionID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{})
}
