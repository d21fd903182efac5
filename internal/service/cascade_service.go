package service

import (
	"context"
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CascadeState tracks where a cascade invocation is; transitions are logged
// so a partial failure can be located afterwards.
type CascadeState string

const (
	CascadePending              CascadeState = "Pending"
	CascadeDeletingChildren     CascadeState = "DeletingChildren"
	CascadeDeletingParentRecord CascadeState = "DeletingParentRecord"
	CascadeRecomputingParent    CascadeState = "RecomputingParent"
	CascadeDone                 CascadeState = "Done"
	CascadePartialFailure       CascadeState = "PartialFailure"
)

// CascadeService orchestrates multi-step deletion: media cleanup first,
// record deletion second, aggregate recomputation last. Media deletion
// failures are logged and never block record deletion (orphaned media is an
// accepted risk, not retried). Record deletes are idempotent, so an aborted
// cascade can be retried and already-deleted children are skipped.
type CascadeService struct {
	CourseRepo   *repository.CourseRepository
	SectionRepo  *repository.SectionRepository
	LectureRepo  *repository.LectureRepository
	RatingRepo   *repository.RatingRepository
	ProgressRepo *repository.ProgressRepository
	Media        MediaStore
	Agg          *AggregationService
}

func NewCascadeService(
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	lectureRepo *repository.LectureRepository,
	ratingRepo *repository.RatingRepository,
	progressRepo *repository.ProgressRepository,
	media MediaStore,
	agg *AggregationService,
) *CascadeService {
	return &CascadeService{
		CourseRepo:   courseRepo,
		SectionRepo:  sectionRepo,
		LectureRepo:  lectureRepo,
		RatingRepo:   ratingRepo,
		ProgressRepo: progressRepo,
		Media:        media,
		Agg:          agg,
	}
}

// DeleteLecture removes one lecture: media cleanup, record delete, then the
// section-before-course recomputation chain.
func (s *CascadeService) DeleteLecture(ctx context.Context, lectureID uint) error {
	lecture, err := s.LectureRepo.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLectureNotFound
		}
		return err
	}

	section, err := s.SectionRepo.FindByID(lecture.SectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}

	if err := s.deleteLectureWithMedia(ctx, lecture); err != nil {
		return err
	}

	s.Agg.LectureChanged(ctx, section.ID, section.CourseID)
	return nil
}

// DeleteSection deletes every child lecture (media first), then the section
// record, then recomputes the course. A failing child aborts the remaining
// deletions and surfaces a CascadeDeletePartialFailure naming the deleted and
// remaining lecture ids; retrying the call is safe.
func (s *CascadeService) DeleteSection(ctx context.Context, sectionID uint) error {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}

	state := CascadePending
	lectures, err := s.LectureRepo.FindBySection(sectionID)
	if err != nil {
		return err
	}

	state = CascadeDeletingChildren
	deleted := make([]uint, 0, len(lectures))
	for i, lecture := range lectures {
		if err := s.deleteLectureWithMedia(ctx, &lectures[i]); err != nil {
			state = CascadePartialFailure
			remaining := make([]uint, 0, len(lectures)-len(deleted))
			for _, l := range lectures[i:] {
				remaining = append(remaining, l.ID)
			}
			logger.Log.Error("section cascade aborted",
				zap.Uint("sectionId", sectionID),
				zap.String("state", string(state)),
				zap.Uints("deleted", deleted),
				zap.Uints("remaining", remaining),
				zap.Error(err))
			return &util.CascadeDeletePartialFailure{
				SectionID: sectionID,
				Deleted:   deleted,
				Remaining: remaining,
				Cause:     err,
			}
		}
		deleted = append(deleted, lecture.ID)
	}

	state = CascadeDeletingParentRecord
	if err := s.SectionRepo.Delete(sectionID); err != nil {
		return err
	}

	state = CascadeRecomputingParent
	s.Agg.SectionChanged(ctx, section.CourseID)

	state = CascadeDone
	logger.Log.Info("section cascade completed",
		zap.Uint("sectionId", sectionID),
		zap.String("state", string(state)),
		zap.Int("lecturesDeleted", len(deleted)))
	return nil
}

// DeleteCourse cascades over every section, then removes the course's
// ratings, progress records, enrollments, thumbnail and finally the course
// record itself.
func (s *CascadeService) DeleteCourse(ctx context.Context, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	sections, err := s.SectionRepo.FindByCourse(courseID)
	if err != nil {
		return err
	}

	for _, section := range sections {
		if err := s.DeleteSection(ctx, section.ID); err != nil {
			return err
		}
	}

	if course.ThumbnailMediaID != "" {
		if err := s.Media.Delete(ctx, course.ThumbnailMediaID, MediaImage); err != nil {
			logger.Log.Warn("thumbnail delete failed, media may be orphaned",
				zap.Uint("courseId", courseID),
				zap.String("mediaId", course.ThumbnailMediaID),
				zap.Error(err))
		}
	}

	if err := s.RatingRepo.DeleteByCourse(courseID); err != nil {
		return err
	}
	if err := s.ProgressRepo.DeleteByCourse(courseID); err != nil {
		return err
	}
	if err := s.CourseRepo.ClearEnrollments(courseID); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}

	logger.Log.Info("course cascade completed",
		zap.Uint("courseId", courseID),
		zap.Int("sectionsDeleted", len(sections)))
	return nil
}

// deleteLectureWithMedia requests deletion of the lecture's media objects and
// then deletes the record. Media failures are non-fatal; a record delete
// failure aborts.
func (s *CascadeService) deleteLectureWithMedia(ctx context.Context, lecture *model.Lecture) error {
	if err := s.Media.Delete(ctx, lecture.VideoMediaID, MediaVideo); err != nil {
		logger.Log.Warn("video delete failed, media may be orphaned",
			zap.Uint("lectureId", lecture.ID),
			zap.String("mediaId", lecture.VideoMediaID),
			zap.Error(err))
	}
	if lecture.NotesMediaID != "" {
		if err := s.Media.Delete(ctx, lecture.NotesMediaID, MediaDocument); err != nil {
			logger.Log.Warn("notes delete failed, media may be orphaned",
				zap.Uint("lectureId", lecture.ID),
				zap.String("mediaId", lecture.NotesMediaID),
				zap.Error(err))
		}
	}
	return s.LectureRepo.Delete(lecture.ID)
}
