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

func newLectureService(env *testEnv) *LectureService {
	return NewLectureService(env.lectures, env.sections, env.media, env.cascade, env.agg)
}

func TestAddLectureAssignsNextOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := newLectureService(env)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")

	req := LectureCreateRequest{Title: "Lecture", Description: "d"}
	var lectures []*model.Lecture
	for i := 0; i < 3; i++ {
		lecture, err := svc.AddLecture(ctx, section.ID, req, "/tmp/video.mp4", "")
		require.NoError(t, err)
		lectures = append(lectures, lecture)
	}
	assert.Equal(t, 1, lectures[0].Order)
	assert.Equal(t, 2, lectures[1].Order)
	assert.Equal(t, 3, lectures[2].Order)

	// Deleting the highest-ordered lecture leaves a gap; its key is not
	// handed out again.
	require.NoError(t, svc.DeleteLecture(ctx, lectures[2].ID))

	next, err := svc.AddLecture(ctx, section.ID, req, "/tmp/video.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, 4, next.Order)
}

func TestAddLectureRequiresVideo(t *testing.T) {
	env := newTestEnv(t)
	svc := newLectureService(env)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")

	_, err := svc.AddLecture(ctx, section.ID, LectureCreateRequest{Title: "L", Description: "d"}, "", "")
	assert.ErrorIs(t, err, util.ErrMissingVideo)

	_, err = svc.AddLecture(ctx, 999, LectureCreateRequest{Title: "L", Description: "d"}, "/tmp/video.mp4", "")
	assert.ErrorIs(t, err, util.ErrSectionNotFound)
}

func TestAddLectureCompensatesMediaOnCreateFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := newLectureService(env)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")

	failing := true
	err := env.db.Callback().Create().Before("gorm:create").
		Register("test:fail_lecture_create", func(tx *gorm.DB) {
			if failing && tx.Statement.Table == "lectures" {
				tx.AddError(errors.New("constraint violation"))
			}
		})
	require.NoError(t, err)

	_, err = svc.AddLecture(ctx, section.ID,
		LectureCreateRequest{Title: "L", Description: "d"}, "/tmp/video.mp4", "/tmp/notes.pdf")
	require.Error(t, err)

	// Both freshly uploaded objects were deleted again.
	require.Len(t, env.media.stored, 2)
	attempts := env.media.deleteAttempts()
	assert.ElementsMatch(t, env.media.stored, attempts)

	lectures, err := env.lectures.FindBySection(section.ID)
	require.NoError(t, err)
	assert.Empty(t, lectures)
}

func TestUpdateLectureDurationRecomputes(t *testing.T) {
	env := newTestEnv(t)
	svc := newLectureService(env)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	lecture := env.createLecture(t, section.ID, 100, false)
	env.agg.LectureChanged(ctx, section.ID, course.ID)

	duration := 250
	_, err := svc.UpdateLecture(ctx, lecture.ID, LectureUpdateRequest{Duration: &duration})
	require.NoError(t, err)

	storedSection := env.reloadSection(t, section.ID)
	assert.Equal(t, 250, storedSection.TotalDuration)
	storedCourse := env.reloadCourse(t, course.ID)
	assert.Equal(t, 250, storedCourse.TotalDuration)

	// Negative durations are stored as 0.
	negative := -10
	updated, err := svc.UpdateLecture(ctx, lecture.ID, LectureUpdateRequest{Duration: &negative})
	require.NoError(t, err)
	assert.Zero(t, updated.Duration)
}

func TestListForSectionGatesContent(t *testing.T) {
	env := newTestEnv(t)
	svc := newLectureService(env)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, section.ID, 100, false)
	preview := env.createLecture(t, section.ID, 200, false)
	preview.IsPreview = true
	require.NoError(t, env.lectures.Update(preview))
	env.agg.LectureChanged(ctx, section.ID, course.ID)

	views, err := svc.ListForSection(section.ID, false)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Empty(t, views[0].VideoURL)
	assert.NotEmpty(t, views[1].VideoURL)

	views, err = svc.ListForSection(section.ID, true)
	require.NoError(t, err)
	assert.NotEmpty(t, views[0].VideoURL)
	assert.NotEmpty(t, views[1].VideoURL)
}
