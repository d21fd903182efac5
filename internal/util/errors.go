package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrLectureNotFound      = errors.New("lecture not found")
	ErrProgressNotFound     = errors.New("progress not found")
	ErrDuplicateRating      = errors.New("rating already exists for this course")
	ErrRatingNotFound       = errors.New("rating not found")
	ErrLectureNotInProgress = errors.New("lecture is not part of the progress snapshot")
	ErrNotEnrolled          = errors.New("student is not enrolled in this course")
	ErrInvalidScore         = errors.New("score must be between 1 and 5")
	ErrReviewTooLong        = errors.New("review cannot exceed 500 characters")
	ErrMissingVideo         = errors.New("video file is required")
	ErrMediaUploadFailed    = errors.New("media upload failed")
)

// CascadeDeletePartialFailure reports a section cascade that stopped partway.
// Deleted holds the lecture ids removed before the failure, Remaining the ones
// still present; retrying the section delete skips the already-deleted ones.
type CascadeDeletePartialFailure struct {
	SectionID uint
	Deleted   []uint
	Remaining []uint
	Cause     error
}

func (e *CascadeDeletePartialFailure) Error() string {
	return fmt.Sprintf("cascade delete of section %d failed after deleting lectures %v (remaining %v): %v",
		e.SectionID, e.Deleted, e.Remaining, e.Cause)
}

func (e *CascadeDeletePartialFailure) Unwrap() error {
	return e.Cause
}
