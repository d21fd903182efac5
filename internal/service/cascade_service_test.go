package service

import (
	"context"
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeleteLectureRecomputesRollups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	keep := env.createLecture(t, section.ID, 100, false)
	gone := env.createLecture(t, section.ID, 200, true)
	env.agg.LectureChanged(ctx, section.ID, course.ID)

	require.NoError(t, env.cascade.DeleteLecture(ctx, gone.ID))

	_, err := env.lectures.FindByID(gone.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = env.lectures.FindByID(keep.ID)
	assert.NoError(t, err)

	attempts := env.media.deleteAttempts()
	assert.Contains(t, attempts, gone.VideoMediaID)
	assert.Contains(t, attempts, gone.NotesMediaID)

	storedSection := env.reloadSection(t, section.ID)
	assert.Equal(t, 1, storedSection.TotalLectures)
	assert.Equal(t, 100, storedSection.TotalDuration)

	storedCourse := env.reloadCourse(t, course.ID)
	assert.Equal(t, 1, storedCourse.TotalLectures)
	assert.Equal(t, 100, storedCourse.TotalDuration)
}

func TestDeleteLectureMediaFailureIsNonFatal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	lecture := env.createLecture(t, section.ID, 100, false)
	env.agg.LectureChanged(ctx, section.ID, course.ID)

	env.media.failDelete[lecture.VideoMediaID] = errors.New("storage unreachable")

	require.NoError(t, env.cascade.DeleteLecture(ctx, lecture.ID))

	_, err := env.lectures.FindByID(lecture.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Contains(t, env.media.deleteAttempts(), lecture.VideoMediaID)
}

func TestDeleteCourseCascadeRemovesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)

	first := env.createSection(t, course.ID, "Basics")
	second := env.createSection(t, course.ID, "Advanced")
	var lectures []*model.Lecture
	lectures = append(lectures, env.createLecture(t, first.ID, 100, true))
	lectures = append(lectures, env.createLecture(t, first.ID, 200, false))
	lectures = append(lectures, env.createLecture(t, first.ID, 300, false))
	lectures = append(lectures, env.createLecture(t, second.ID, 400, true))
	lectures = append(lectures, env.createLecture(t, second.ID, 500, false))
	env.agg.LectureChanged(ctx, first.ID, course.ID)
	env.agg.LectureChanged(ctx, second.ID, course.ID)

	studentA := env.createUser(t, model.Student)
	studentB := env.createUser(t, model.Student)
	require.NoError(t, env.enrollSvc.EnrollStudent(course.ID, studentA.ID))
	require.NoError(t, env.enrollSvc.EnrollStudent(course.ID, studentB.ID))
	_, err := env.ratingSvc.Submit(ctx, studentA.ID, course.ID, RatingRequest{Score: 5})
	require.NoError(t, err)
	_, err = env.ratingSvc.Submit(ctx, studentB.ID, course.ID, RatingRequest{Score: 3})
	require.NoError(t, err)
	_, err = env.progSvc.InitProgress(studentA.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, env.cascade.DeleteCourse(ctx, course.ID))

	// One delete per video, per notes document, plus the thumbnail.
	attempts := env.media.deleteAttempts()
	assert.Len(t, attempts, 5+2+1)
	for _, lecture := range lectures {
		assert.Contains(t, attempts, lecture.VideoMediaID)
		if lecture.NotesMediaID != "" {
			assert.Contains(t, attempts, lecture.NotesMediaID)
		}
	}
	assert.Contains(t, attempts, course.ThumbnailMediaID)

	_, err = env.courses.FindByID(course.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sections, err := env.sections.FindByCourse(course.ID)
	require.NoError(t, err)
	assert.Empty(t, sections)

	for _, lecture := range lectures {
		_, err := env.lectures.FindByID(lecture.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}

	var count int64
	require.NoError(t, env.db.Model(&model.Rating{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.Model(&model.CourseProgress{}).Where("course_id = ?", course.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.Table("course_enrollments").Where("course_id = ?", course.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteSectionPartialFailureAndRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	l1 := env.createLecture(t, section.ID, 100, false)
	l2 := env.createLecture(t, section.ID, 200, false)
	l3 := env.createLecture(t, section.ID, 300, false)
	env.agg.LectureChanged(ctx, section.ID, course.ID)

	// Fail lecture record deletes after the first one goes through.
	gate := struct {
		active  bool
		allowed int
	}{active: true, allowed: 1}
	err := env.db.Callback().Delete().Before("gorm:delete").
		Register("test:gate_lecture_delete", func(tx *gorm.DB) {
			if tx.Statement.Table != "lectures" || !gate.active {
				return
			}
			if gate.allowed > 0 {
				gate.allowed--
				return
			}
			tx.AddError(errors.New("disk failure"))
		})
	require.NoError(t, err)

	err = env.cascade.DeleteSection(ctx, section.ID)
	var partial *util.CascadeDeletePartialFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, section.ID, partial.SectionID)
	assert.Equal(t, []uint{l1.ID}, partial.Deleted)
	assert.Equal(t, []uint{l2.ID, l3.ID}, partial.Remaining)

	// The section itself survived the aborted cascade.
	_, err = env.sections.FindByID(section.ID)
	require.NoError(t, err)
	_, err = env.lectures.FindByID(l1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = env.lectures.FindByID(l2.ID)
	assert.NoError(t, err)

	// Retrying skips the already-deleted child and completes.
	gate.active = false
	require.NoError(t, env.cascade.DeleteSection(ctx, section.ID))

	_, err = env.sections.FindByID(section.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	for _, id := range []uint{l2.ID, l3.ID} {
		_, err = env.lectures.FindByID(id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}

	stored := env.reloadCourse(t, course.ID)
	assert.Zero(t, stored.TotalLectures)
	assert.Zero(t, stored.TotalDuration)
}

func TestDeleteSectionRecomputesCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)

	keep := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, keep.ID, 100, false)
	gone := env.createSection(t, course.ID, "Advanced")
	env.createLecture(t, gone.ID, 200, false)
	env.agg.LectureChanged(ctx, keep.ID, course.ID)
	env.agg.LectureChanged(ctx, gone.ID, course.ID)

	require.NoError(t, env.cascade.DeleteSection(ctx, gone.ID))

	stored := env.reloadCourse(t, course.ID)
	assert.Equal(t, 1, stored.TotalLectures)
	assert.Equal(t, 100, stored.TotalDuration)
}

func TestCascadeUnknownTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.cascade.DeleteLecture(ctx, 12345), util.ErrLectureNotFound)
	assert.ErrorIs(t, env.cascade.DeleteSection(ctx, 12345), util.ErrSectionNotFound)
	assert.ErrorIs(t, env.cascade.DeleteCourse(ctx, 12345), util.ErrCourseNotFound)
}
