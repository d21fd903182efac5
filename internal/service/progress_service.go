package service

import (
	"errors"
	"math"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressService maintains per-learner completion records. A progress
// record snapshots the course's lecture set at initialization; lectures
// added later are not retroactively appended.
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	SectionRepo  *repository.SectionRepository
	LectureRepo  *repository.LectureRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	lectureRepo *repository.LectureRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		SectionRepo:  sectionRepo,
		LectureRepo:  lectureRepo,
	}
}

// InitProgress creates the learner's progress record for the course, one
// sub-record per lecture that currently exists. Idempotent: an existing
// record is returned unchanged.
func (s *ProgressService) InitProgress(userID, courseID uint) (*model.CourseProgress, error) {
	existing, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	sections, err := s.SectionRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	var subRecords []model.LectureProgress
	for _, section := range sections {
		lectures, err := s.LectureRepo.FindBySection(section.ID)
		if err != nil {
			return nil, err
		}
		for _, lecture := range lectures {
			subRecords = append(subRecords, model.LectureProgress{
				LectureID:   lecture.ID,
				IsCompleted: false,
				WatchTime:   0,
				LastWatched: time.Now(),
			})
		}
	}

	progress := &model.CourseProgress{
		UserID:          userID,
		CourseID:        courseID,
		LectureProgress: subRecords,
		LastAccessed:    time.Now(),
	}
	if err := s.ProgressRepo.Create(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// RecordProgress updates one lecture sub-record and recomputes the
// percentage over the full snapshot. The percentage is only recomputed after
// the sub-record write succeeds.
func (s *ProgressService) RecordProgress(userID, courseID, lectureID uint, watchTime int, completed bool) (*model.CourseProgress, error) {
	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}

	var target *model.LectureProgress
	for i := range progress.LectureProgress {
		if progress.LectureProgress[i].LectureID == lectureID {
			target = &progress.LectureProgress[i]
			break
		}
	}
	if target == nil {
		return nil, util.ErrLectureNotInProgress
	}

	target.WatchTime = watchTime
	target.IsCompleted = completed
	target.LastWatched = time.Now()
	if err := s.ProgressRepo.SaveLectureProgress(target); err != nil {
		return nil, err
	}

	percentage, isCompleted := computeCompletion(progress.LectureProgress)
	if err := s.ProgressRepo.UpdateDerived(progress.ID, percentage, isCompleted); err != nil {
		return nil, err
	}

	progress.CompletePercentage = percentage
	progress.IsCompleted = isCompleted
	return progress, nil
}

func (s *ProgressService) GetProgress(userID, courseID uint) (*model.CourseProgress, error) {
	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProgressNotFound
		}
		return nil, err
	}
	return progress, nil
}

// computeCompletion rounds 100*completed/total to the nearest integer; an
// empty snapshot is 0 percent, not an error.
func computeCompletion(subRecords []model.LectureProgress) (int, bool) {
	if len(subRecords) == 0 {
		return 0, false
	}
	completed := 0
	for _, lp := range subRecords {
		if lp.IsCompleted {
			completed++
		}
	}
	percentage := int(math.Round(float64(completed) / float64(len(subRecords)) * 100))
	return percentage, percentage == 100
}
