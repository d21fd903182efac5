package service

import (
	"context"
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type SectionService struct {
	SectionRepo *repository.SectionRepository
	CourseRepo  *repository.CourseRepository
	LectureRepo *repository.LectureRepository
	Cascade     *CascadeService
	Agg         *AggregationService
}

func NewSectionService(
	sectionRepo *repository.SectionRepository,
	courseRepo *repository.CourseRepository,
	lectureRepo *repository.LectureRepository,
	cascade *CascadeService,
	agg *AggregationService,
) *SectionService {
	return &SectionService{
		SectionRepo: sectionRepo,
		CourseRepo:  courseRepo,
		LectureRepo: lectureRepo,
		Cascade:     cascade,
		Agg:         agg,
	}
}

type SectionRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=100"`
	Position int    `json:"position"`
}

// CreateSection adds an empty section; rollups are untouched because an
// empty section contributes nothing to either sum.
func (s *SectionService) CreateSection(ctx context.Context, courseID uint, req SectionRequest) (*model.Section, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	section := &model.Section{
		Title:    req.Title,
		CourseID: courseID,
		Position: req.Position,
	}
	if err := s.SectionRepo.Create(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) ListForCourse(courseID uint) ([]model.Section, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.SectionRepo.FindByCourse(courseID)
}

func (s *SectionService) UpdateSection(ctx context.Context, sectionID uint, req SectionRequest) (*model.Section, error) {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}

	section.Title = req.Title
	if req.Position != 0 {
		section.Position = req.Position
	}
	if err := s.SectionRepo.Update(section); err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection delegates to the cascade coordinator: child lectures and
// their media go first, the section record second, the course recompute
// last.
func (s *SectionService) DeleteSection(ctx context.Context, sectionID uint) error {
	return s.Cascade.DeleteSection(ctx, sectionID)
}
