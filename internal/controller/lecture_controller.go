package controller

import (
	"os"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LectureController struct {
	LectureService *service.LectureService
	Enrollment     *service.EnrollmentService
	SectionService *service.SectionService
}

func NewLectureController(
	lectureService *service.LectureService,
	enrollment *service.EnrollmentService,
	sectionService *service.SectionService,
) *LectureController {
	return &LectureController{
		LectureService: lectureService,
		Enrollment:     enrollment,
		SectionService: sectionService,
	}
}

// @Summary Add a lecture to a section
// @Description Requires a video file; notes are optional. Duration is probed
// @Description from the video.
// @Tags lectures
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "section id"
// @Param title formData string true "lecture title"
// @Param description formData string true "lecture description"
// @Param video formData file true "video file"
// @Param notes formData file false "notes document"
// @Success 201 {object} util.Response
// @Router /api/sections/{sectionId}/lectures [post]
func (c *LectureController) Add(ctx *gin.Context) {
	sectionID, err := parseID(ctx, "sectionId")
	if err != nil {
		return
	}

	var req service.LectureCreateRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	videoFile, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, util.ErrMissingVideo.Error())
		return
	}
	videoPath, err := saveUpload(ctx, videoFile)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(videoPath)

	notesPath := ""
	if notesFile, err := ctx.FormFile("notes"); err == nil {
		notesPath, err = saveUpload(ctx, notesFile)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer os.Remove(notesPath)
	}

	lecture, err := c.LectureService.AddLecture(ctx.Request.Context(), sectionID, req, videoPath, notesPath)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, lecture)
}

// @Summary Update a lecture
// @Tags lectures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lectureId path int true "lecture id"
// @Success 200 {object} util.Response
// @Router /api/lectures/{lectureId} [patch]
func (c *LectureController) Update(ctx *gin.Context) {
	lectureID, err := parseID(ctx, "lectureId")
	if err != nil {
		return
	}

	var req service.LectureUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lecture, err := c.LectureService.UpdateLecture(ctx.Request.Context(), lectureID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, lecture)
}

// @Summary Delete a lecture and its media
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param lectureId path int true "lecture id"
// @Success 200 {object} util.Response
// @Router /api/lectures/{lectureId} [delete]
func (c *LectureController) Delete(ctx *gin.Context) {
	lectureID, err := parseID(ctx, "lectureId")
	if err != nil {
		return
	}

	if err := c.LectureService.DeleteLecture(ctx.Request.Context(), lectureID); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{})
}

// @Summary List a section's lectures with visibility resolved
// @Tags lectures
// @Produce json
// @Param sectionId path int true "section id"
// @Success 200 {object} util.Response
// @Router /api/sections/{sectionId}/lectures [get]
func (c *LectureController) ListInSection(ctx *gin.Context) {
	sectionID, err := parseID(ctx, "sectionId")
	if err != nil {
		return
	}

	isEnrolled := false
	if claims := util.GetUserFromContext(ctx); claims != nil {
		section, err := c.SectionService.SectionRepo.FindByID(sectionID)
		if err == nil {
			isEnrolled, _ = c.Enrollment.IsEnrolled(section.CourseID, claims.UserID)
		}
	}

	views, err := c.LectureService.ListForSection(sectionID, isEnrolled)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, views)
}
