package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleServiceError maps the service-layer error taxonomy onto HTTP codes.
func handleServiceError(c *gin.Context, err error) {
	var partial *util.CascadeDeletePartialFailure
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrSectionNotFound),
		errors.Is(err, util.ErrLectureNotFound),
		errors.Is(err, util.ErrRatingNotFound),
		errors.Is(err, util.ErrProgressNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrDuplicateRating):
		util.Conflict(c, err.Error())
	case errors.Is(err, util.ErrInvalidScore),
		errors.Is(err, util.ErrReviewTooLong),
		errors.Is(err, util.ErrMissingVideo),
		errors.Is(err, util.ErrLectureNotInProgress):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(c, err.Error())
	case errors.As(err, &partial):
		// Surface which children were removed so the caller can retry.
		c.JSON(http.StatusConflict, util.Response{
			Code:    http.StatusConflict,
			Message: "cascade delete partially failed",
			Data: gin.H{
				"sectionId": partial.SectionID,
				"deleted":   partial.Deleted,
				"remaining": partial.Remaining,
			},
		})
	default:
		util.LogInternalError(c, err)
	}
}

// saveUpload spools a multipart file to a temp path for the media store; the
// caller removes it when done.
func saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dst := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}
