package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const courseDetailCacheTTL = 10 * time.Minute

type CourseService struct {
	CourseRepo *repository.CourseRepository
	Enrollment *EnrollmentService
	Media      MediaStore
	Redis      *redis.Client
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollment *EnrollmentService,
	media MediaStore,
	rdb *redis.Client,
) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		Enrollment: enrollment,
		Media:      media,
		Redis:      rdb,
	}
}

type CourseCreateRequest struct {
	Title       string  `form:"title" binding:"required,max=100"`
	Subtitle    string  `form:"subtitle" binding:"max=100"`
	Description string  `form:"description" binding:"required"`
	Category    string  `form:"category" binding:"required"`
	Level       string  `form:"level"`
	Price       float64 `form:"price"`
}

type CourseUpdateRequest struct {
	Title       string   `json:"title" binding:"omitempty,max=100"`
	Subtitle    string   `json:"subtitle" binding:"omitempty,max=100"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Level       string   `json:"level"`
	Price       *float64 `json:"price"`
}

// SectionView pairs a section with its gated lecture views.
type SectionView struct {
	model.Section
	Lectures []model.LectureView `json:"lectures"`
}

type CourseDetail struct {
	model.Course
	Sections   []SectionView `json:"sections"`
	IsEnrolled bool          `json:"isEnrolled"`
}

// CreateCourse uploads the thumbnail first and creates the record after; if
// the record create fails the uploaded thumbnail is deleted again so no
// orphan is left behind.
func (s *CourseService) CreateCourse(ctx context.Context, instructorID uint, req CourseCreateRequest, thumbnailPath string) (*model.Course, error) {
	if !model.IsValidCategory(req.Category) {
		return nil, errors.New("invalid course category: " + req.Category)
	}
	if req.Price < 0 {
		return nil, errors.New("course price must not be negative")
	}

	level := model.CourseLevel(req.Level)
	if level == "" {
		level = model.Beginner
	}

	var thumbnail *MediaObject
	if thumbnailPath != "" {
		var err error
		thumbnail, err = s.Media.Store(ctx, thumbnailPath, MediaImage)
		if err != nil {
			return nil, err
		}
	}

	course := &model.Course{
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  req.Description,
		Category:     req.Category,
		Level:        level,
		Price:        req.Price,
		InstructorID: instructorID,
	}
	if thumbnail != nil {
		course.Thumbnail = thumbnail.URL
		course.ThumbnailMediaID = thumbnail.MediaID
	}

	if err := s.CourseRepo.Create(course); err != nil {
		if thumbnail != nil {
			if delErr := s.Media.Delete(ctx, thumbnail.MediaID, MediaImage); delErr != nil {
				logger.Log.Warn("compensating thumbnail delete failed",
					zap.String("mediaId", thumbnail.MediaID), zap.Error(delErr))
			}
		}
		return nil, err
	}

	return course, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, courseID, requesterID uint, role model.UserRole, req CourseUpdateRequest) (*model.Course, error) {
	course, err := s.findOwned(courseID, requesterID, role)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Subtitle != "" {
		course.Subtitle = req.Subtitle
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Category != "" {
		if !model.IsValidCategory(req.Category) {
			return nil, errors.New("invalid course category: " + req.Category)
		}
		course.Category = req.Category
	}
	if req.Level != "" {
		course.Level = model.CourseLevel(req.Level)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.New("course price must not be negative")
		}
		course.Price = *req.Price
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateDetail(ctx, courseID)
	return course, nil
}

func (s *CourseService) SetPublished(ctx context.Context, courseID, requesterID uint, role model.UserRole, published bool) (*model.Course, error) {
	course, err := s.findOwned(courseID, requesterID, role)
	if err != nil {
		return nil, err
	}
	course.IsPublished = published
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateDetail(ctx, courseID)
	return course, nil
}

func (s *CourseService) ListPublished(category, level string, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.ListPublished(category, level, page, limit)
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

// GetCourseDetail returns the course tree with lecture visibility resolved
// for the requester (nil for anonymous). Unpublished courses are only
// visible to their instructor and admins.
func (s *CourseService) GetCourseDetail(ctx context.Context, courseID uint, requesterID *uint, role model.UserRole) (*CourseDetail, error) {
	course, err := s.loadTree(ctx, courseID)
	if err != nil {
		return nil, err
	}

	isOwner := requesterID != nil && (*requesterID == course.InstructorID || role == model.Admin)
	if !course.IsPublished && !isOwner {
		return nil, util.ErrCourseNotFound
	}

	isEnrolled := isOwner
	if !isEnrolled && requesterID != nil {
		isEnrolled, err = s.Enrollment.IsEnrolled(courseID, *requesterID)
		if err != nil {
			return nil, err
		}
	}

	detail := &CourseDetail{Course: *course, IsEnrolled: isEnrolled}
	detail.Course.Sections = nil
	for _, section := range course.Sections {
		view := SectionView{Section: section}
		view.Section.Lectures = nil
		for _, lecture := range section.Lectures {
			view.Lectures = append(view.Lectures, ResolveLectureVisibility(lecture, isEnrolled))
		}
		detail.Sections = append(detail.Sections, view)
	}
	return detail, nil
}

func (s *CourseService) findOwned(courseID, requesterID uint, role model.UserRole) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != requesterID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// loadTree reads the full course tree, going through the redis cache when
// one is configured. The aggregation service invalidates the cached entry
// after every recompute.
func (s *CourseService) loadTree(ctx context.Context, courseID uint) (*model.Course, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, courseDetailCacheKey(courseID)).Result()
		if err == nil {
			var course model.Course
			if err := json.Unmarshal([]byte(cached), &course); err == nil {
				return &course, nil
			}
		}
	}

	course, err := s.CourseRepo.FindByIDWithTree(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(course); err == nil {
			if err := s.Redis.Set(ctx, courseDetailCacheKey(courseID), payload, courseDetailCacheTTL).Err(); err != nil {
				logger.Log.Warn("course cache write failed",
					zap.Uint("courseId", courseID), zap.Error(err))
			}
		}
	}
	return course, nil
}

func (s *CourseService) invalidateDetail(ctx context.Context, courseID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, courseDetailCacheKey(courseID)).Err(); err != nil {
		logger.Log.Warn("course cache invalidation failed",
			zap.Uint("courseId", courseID), zap.Error(err))
	}
}
