package service

import (
	"context"
	"errors"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LectureService struct {
	LectureRepo *repository.LectureRepository
	SectionRepo *repository.SectionRepository
	Media       MediaStore
	Cascade     *CascadeService
	Agg         *AggregationService
}

func NewLectureService(
	lectureRepo *repository.LectureRepository,
	sectionRepo *repository.SectionRepository,
	media MediaStore,
	cascade *CascadeService,
	agg *AggregationService,
) *LectureService {
	return &LectureService{
		LectureRepo: lectureRepo,
		SectionRepo: sectionRepo,
		Media:       media,
		Cascade:     cascade,
		Agg:         agg,
	}
}

type LectureCreateRequest struct {
	Title       string `form:"title" binding:"required,max=100"`
	Description string `form:"description" binding:"required"`
	IsPreview   bool   `form:"isPreview"`
}

type LectureUpdateRequest struct {
	Title       string `json:"title" binding:"omitempty,max=100"`
	Description string `json:"description"`
	IsPreview   *bool  `json:"isPreview"`
	Duration    *int   `json:"duration"`
}

// AddLecture uploads the video (and optional notes), creates the record with
// order max(existing)+1, then triggers the section-before-course
// recomputation. If the record create fails after the uploads, the uploaded
// media is deleted again.
func (s *LectureService) AddLecture(ctx context.Context, sectionID uint, req LectureCreateRequest, videoPath, notesPath string) (*model.Lecture, error) {
	if strings.TrimSpace(videoPath) == "" {
		return nil, util.ErrMissingVideo
	}

	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}

	video, err := s.Media.Store(ctx, videoPath, MediaVideo)
	if err != nil {
		return nil, err
	}

	var notes *MediaObject
	if notesPath != "" {
		notes, err = s.Media.Store(ctx, notesPath, MediaDocument)
		if err != nil {
			s.compensate(ctx, video, nil)
			return nil, err
		}
	}

	maxOrder, err := s.LectureRepo.MaxOrder(sectionID)
	if err != nil {
		s.compensate(ctx, video, notes)
		return nil, err
	}

	lecture := &model.Lecture{
		Title:        req.Title,
		Description:  req.Description,
		SectionID:    sectionID,
		Order:        maxOrder + 1,
		VideoMediaID: video.MediaID,
		VideoURL:     video.URL,
		Duration:     video.DurationSeconds,
		IsPreview:    req.IsPreview,
	}
	if notes != nil {
		lecture.NotesMediaID = notes.MediaID
		lecture.NotesURL = notes.URL
	}

	if err := s.LectureRepo.Create(lecture); err != nil {
		s.compensate(ctx, video, notes)
		return nil, err
	}

	s.Agg.LectureChanged(ctx, sectionID, section.CourseID)
	return lecture, nil
}

// UpdateLecture edits metadata in place; a duration change invalidates both
// the section's and the course's rollups.
func (s *LectureService) UpdateLecture(ctx context.Context, lectureID uint, req LectureUpdateRequest) (*model.Lecture, error) {
	lecture, err := s.LectureRepo.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLectureNotFound
		}
		return nil, err
	}

	durationChanged := false
	if req.Title != "" {
		lecture.Title = req.Title
	}
	if req.Description != "" {
		lecture.Description = req.Description
	}
	if req.IsPreview != nil {
		lecture.IsPreview = *req.IsPreview
	}
	if req.Duration != nil {
		duration := *req.Duration
		if duration < 0 {
			duration = 0
		}
		durationChanged = duration != lecture.Duration
		lecture.Duration = duration
	}

	if err := s.LectureRepo.Update(lecture); err != nil {
		return nil, err
	}

	if durationChanged {
		section, err := s.SectionRepo.FindByID(lecture.SectionID)
		if err != nil {
			return nil, err
		}
		s.Agg.LectureChanged(ctx, section.ID, section.CourseID)
	}
	return lecture, nil
}

// DeleteLecture delegates to the cascade coordinator.
func (s *LectureService) DeleteLecture(ctx context.Context, lectureID uint) error {
	return s.Cascade.DeleteLecture(ctx, lectureID)
}

// ListForSection returns the section's lectures with visibility resolved.
func (s *LectureService) ListForSection(sectionID uint, isEnrolled bool) ([]model.LectureView, error) {
	if _, err := s.SectionRepo.FindByID(sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}

	lectures, err := s.LectureRepo.FindBySection(sectionID)
	if err != nil {
		return nil, err
	}

	views := make([]model.LectureView, 0, len(lectures))
	for _, lecture := range lectures {
		views = append(views, ResolveLectureVisibility(lecture, isEnrolled))
	}
	return views, nil
}

func (s *LectureService) compensate(ctx context.Context, video, notes *MediaObject) {
	if video != nil {
		if err := s.Media.Delete(ctx, video.MediaID, MediaVideo); err != nil {
			logger.Log.Warn("compensating video delete failed",
				zap.String("mediaId", video.MediaID), zap.Error(err))
		}
	}
	if notes != nil {
		if err := s.Media.Delete(ctx, notes.MediaID, MediaDocument); err != nil {
			logger.Log.Warn("compensating notes delete failed",
				zap.String("mediaId", notes.MediaID), zap.Error(err))
		}
	}
}
