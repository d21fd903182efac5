package service

import (
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// EnrollmentService records which learners may access a course's full
// content. The payment collaborator calls EnrollStudent after it confirms a
// purchase; instructors and admins may enroll a learner directly.
type EnrollmentService struct {
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
}

func NewEnrollmentService(courseRepo *repository.CourseRepository, userRepo *repository.UserRepository) *EnrollmentService {
	return &EnrollmentService{CourseRepo: courseRepo, UserRepo: userRepo}
}

// EnrollStudent is idempotent: enrolling an already-enrolled learner is a
// no-op.
func (s *EnrollmentService) EnrollStudent(courseID, userID uint) error {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	enrolled, err := s.CourseRepo.IsEnrolled(courseID, userID)
	if err != nil {
		return err
	}
	if enrolled {
		return nil
	}

	return s.CourseRepo.Enroll(courseID, userID)
}

func (s *EnrollmentService) IsEnrolled(courseID, userID uint) (bool, error) {
	return s.CourseRepo.IsEnrolled(courseID, userID)
}

// ResolveLectureVisibility is pure: full content (video/notes URLs) is
// visible iff the requester is enrolled or the lecture is a preview;
// otherwise only metadata is returned.
func ResolveLectureVisibility(lecture model.Lecture, isEnrolled bool) model.LectureView {
	view := model.LectureView{
		ID:          lecture.ID,
		Title:       lecture.Title,
		Description: lecture.Description,
		Order:       lecture.Order,
		Duration:    lecture.Duration,
		IsPreview:   lecture.IsPreview,
	}
	if isEnrolled || lecture.IsPreview {
		view.VideoURL = lecture.VideoURL
		view.NotesURL = lecture.NotesURL
	}
	return view
}
