package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// RatingService owns the rating ledger: at most one rating per
// (student, course) pair. Every write triggers the course's rating aggregate
// recomputation; the section/lecture rollup path is never involved.
type RatingService struct {
	RatingRepo *repository.RatingRepository
	CourseRepo *repository.CourseRepository
	Agg        *AggregationService
}

func NewRatingService(
	ratingRepo *repository.RatingRepository,
	courseRepo *repository.CourseRepository,
	agg *AggregationService,
) *RatingService {
	return &RatingService{
		RatingRepo: ratingRepo,
		CourseRepo: courseRepo,
		Agg:        agg,
	}
}

type RatingRequest struct {
	Score  int    `json:"score" binding:"required"`
	Review string `json:"review"`
}

type RatingStats struct {
	AverageRating float64        `json:"averageRating"`
	TotalRatings  int            `json:"totalRatings"`
	Ratings       []model.Rating `json:"ratings,omitempty"`
}

// Submit creates the student's rating for the course. Validation happens
// before any write; a second submission for the same pair fails with
// ErrDuplicateRating and leaves the first rating untouched.
func (s *RatingService) Submit(ctx context.Context, studentID, courseID uint, req RatingRequest) (*model.Rating, error) {
	if err := validateRating(req); err != nil {
		return nil, err
	}
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	_, err := s.RatingRepo.FindByCourseAndStudent(courseID, studentID)
	if err == nil {
		return nil, util.ErrDuplicateRating
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rating := &model.Rating{
		CourseID:  courseID,
		StudentID: studentID,
		Score:     req.Score,
		Review:    req.Review,
	}
	if err := s.RatingRepo.Create(rating); err != nil {
		// A concurrent submission can slip past the lookup; the unique index
		// still holds one row per pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateRating
		}
		return nil, err
	}

	s.Agg.RatingChanged(ctx, courseID)
	return rating, nil
}

// Update overwrites the student's existing rating in place; there is no
// rating history.
func (s *RatingService) Update(ctx context.Context, studentID, courseID uint, req RatingRequest) (*model.Rating, error) {
	if err := validateRating(req); err != nil {
		return nil, err
	}

	rating, err := s.RatingRepo.FindByCourseAndStudent(courseID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRatingNotFound
		}
		return nil, err
	}

	rating.Score = req.Score
	rating.Review = req.Review
	if err := s.RatingRepo.Update(rating); err != nil {
		return nil, err
	}

	s.Agg.RatingChanged(ctx, courseID)
	return rating, nil
}

func (s *RatingService) Delete(ctx context.Context, studentID, courseID uint) error {
	rating, err := s.RatingRepo.FindByCourseAndStudent(courseID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrRatingNotFound
		}
		return err
	}

	if err := s.RatingRepo.Delete(rating); err != nil {
		return err
	}

	s.Agg.RatingChanged(ctx, courseID)
	return nil
}

// ListForCourse returns the course's reviews newest-first together with the
// stored aggregate.
func (s *RatingService) ListForCourse(courseID uint) (*RatingStats, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	ratings, err := s.RatingRepo.ListForCourse(courseID)
	if err != nil {
		return nil, err
	}

	return &RatingStats{
		AverageRating: course.AverageRating,
		TotalRatings:  course.TotalRatings,
		Ratings:       ratings,
	}, nil
}

func validateRating(req RatingRequest) error {
	if req.Score < 1 || req.Score > 5 {
		return util.ErrInvalidScore
	}
	// Characters, not bytes; multibyte reviews count per rune.
	if utf8.RuneCountInString(req.Review) > model.MaxReviewLength {
		return util.ErrReviewTooLong
	}
	return nil
}
