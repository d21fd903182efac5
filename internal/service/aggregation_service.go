package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AggregationService recomputes the derived statistics: section and course
// rollups (lecture count, total duration) and course rating aggregates. It is
// the only writer of those fields.
//
// When a lecture changes, the owning section recomputes before the owning
// course; course aggregation reads section rollups, never raw lectures, so
// the summing logic lives in exactly one place per level. Rating changes go
// through RecomputeCourse alone.
type AggregationService struct {
	SectionRepo *repository.SectionRepository
	LectureRepo *repository.LectureRepository
	CourseRepo  *repository.CourseRepository
	RatingRepo  *repository.RatingRepository
	Redis       *redis.Client

	mu          sync.Mutex
	courseLocks map[uint]*sync.Mutex
	stale       map[uint]struct{}
}

func NewAggregationService(
	sectionRepo *repository.SectionRepository,
	lectureRepo *repository.LectureRepository,
	courseRepo *repository.CourseRepository,
	ratingRepo *repository.RatingRepository,
	rdb *redis.Client,
) *AggregationService {
	return &AggregationService{
		SectionRepo: sectionRepo,
		LectureRepo: lectureRepo,
		CourseRepo:  courseRepo,
		RatingRepo:  ratingRepo,
		Redis:       rdb,
		courseLocks: make(map[uint]*sync.Mutex),
		stale:       make(map[uint]struct{}),
	}
}

// RecomputeSection reloads the section's lectures and rewrites its rollup.
// Negative or absent durations count as 0.
func (s *AggregationService) RecomputeSection(ctx context.Context, sectionID uint) (*model.Section, error) {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		return nil, err
	}

	lectures, err := s.LectureRepo.FindBySection(sectionID)
	if err != nil {
		return nil, err
	}

	totalDuration := 0
	for _, lecture := range lectures {
		if lecture.Duration > 0 {
			totalDuration += lecture.Duration
		}
	}

	err = s.SectionRepo.UpdateDerived(sectionID, map[string]interface{}{
		"total_lectures": len(lectures),
		"total_duration": totalDuration,
	})
	if err != nil {
		return nil, err
	}

	section.TotalLectures = len(lectures)
	section.TotalDuration = totalDuration
	return section, nil
}

// RecomputeCourse sums the section rollups and refreshes the rating
// aggregate. Recomputations for the same course are serialized; aggregate
// writes across different courses proceed independently.
func (s *AggregationService) RecomputeCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	lock := s.courseLock(courseID)
	lock.Lock()
	defer lock.Unlock()

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}

	sections, err := s.SectionRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	totalLectures := 0
	totalDuration := 0
	for _, section := range sections {
		totalLectures += section.TotalLectures
		totalDuration += section.TotalDuration
	}

	average, total, err := s.RatingRepo.AggregateForCourse(courseID)
	if err != nil {
		return nil, err
	}
	averageRating := math.Round(average*10) / 10

	err = s.CourseRepo.UpdateDerived(courseID, map[string]interface{}{
		"total_lectures": totalLectures,
		"total_duration": totalDuration,
		"average_rating": averageRating,
		"total_ratings":  total,
	})
	if err != nil {
		return nil, err
	}

	s.clearStale(courseID)
	s.invalidateCache(ctx, courseID)

	course.TotalLectures = totalLectures
	course.TotalDuration = totalDuration
	course.AverageRating = averageRating
	course.TotalRatings = int(total)
	return course, nil
}

// LectureChanged runs the section-then-course chain after a committed
// lecture mutation. A recomputation failure leaves the old aggregates in
// place (stale but valid) and is reported through logs and metrics rather
// than to the caller, whose own write already succeeded.
func (s *AggregationService) LectureChanged(ctx context.Context, sectionID, courseID uint) {
	if _, err := s.RecomputeSection(ctx, sectionID); err != nil {
		s.reportFailure("section", courseID, err)
		return
	}
	if _, err := s.RecomputeCourse(ctx, courseID); err != nil {
		s.reportFailure("course", courseID, err)
	}
}

// SectionChanged runs only the course-level recomputation, for mutations
// whose section rollups are already consistent (section delete, reorder).
func (s *AggregationService) SectionChanged(ctx context.Context, courseID uint) {
	if _, err := s.RecomputeCourse(ctx, courseID); err != nil {
		s.reportFailure("course", courseID, err)
	}
}

// RatingChanged refreshes the rating aggregate; the section/lecture rollup
// path is untouched.
func (s *AggregationService) RatingChanged(ctx context.Context, courseID uint) {
	if _, err := s.RecomputeCourse(ctx, courseID); err != nil {
		s.reportFailure("rating", courseID, err)
	}
}

// StaleCourses lists the courses whose derived fields are known to be stale.
func (s *AggregationService) StaleCourses() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.stale))
	for id := range s.stale {
		ids = append(ids, id)
	}
	return ids
}

func (s *AggregationService) courseLock(courseID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.courseLocks[courseID]
	if !ok {
		lock = &sync.Mutex{}
		s.courseLocks[courseID] = lock
	}
	return lock
}

func (s *AggregationService) reportFailure(scope string, courseID uint, err error) {
	logger.Log.Error("aggregate recomputation failed, values left stale",
		zap.String("scope", scope),
		zap.Uint("courseId", courseID),
		zap.Error(err))
	monitoring.AggregationFailures.WithLabelValues(scope).Inc()

	s.mu.Lock()
	s.stale[courseID] = struct{}{}
	monitoring.StaleAggregates.Set(float64(len(s.stale)))
	s.mu.Unlock()
}

func (s *AggregationService) clearStale(courseID uint) {
	s.mu.Lock()
	delete(s.stale, courseID)
	monitoring.StaleAggregates.Set(float64(len(s.stale)))
	s.mu.Unlock()
}

func (s *AggregationService) invalidateCache(ctx context.Context, courseID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, courseDetailCacheKey(courseID)).Err(); err != nil {
		logger.Log.Warn("course cache invalidation failed",
			zap.Uint("courseId", courseID), zap.Error(err))
	}
}

func courseDetailCacheKey(courseID uint) string {
	return fmt.Sprintf("course:detail:%d", courseID)
}
