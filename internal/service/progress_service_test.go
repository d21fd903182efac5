package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProgressSnapshotsLectureSet(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	first := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, first.ID, 100, false)
	env.createLecture(t, first.ID, 200, false)
	second := env.createSection(t, course.ID, "Advanced")
	env.createLecture(t, second.ID, 300, false)
	env.createLecture(t, second.ID, 400, false)

	student := env.createUser(t, model.Student)
	progress, err := env.progSvc.InitProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Len(t, progress.LectureProgress, 4)
	assert.Zero(t, progress.CompletePercentage)
	assert.False(t, progress.IsCompleted)
}

func TestRecordProgressPercentage(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	var lectureIDs []uint
	for i := 0; i < 4; i++ {
		lectureIDs = append(lectureIDs, env.createLecture(t, section.ID, 100, false).ID)
	}

	student := env.createUser(t, model.Student)
	_, err := env.progSvc.InitProgress(student.ID, course.ID)
	require.NoError(t, err)

	for _, id := range lectureIDs[:3] {
		_, err = env.progSvc.RecordProgress(student.ID, course.ID, id, 100, true)
		require.NoError(t, err)
	}

	progress, err := env.progSvc.GetProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, progress.CompletePercentage)
	assert.False(t, progress.IsCompleted)

	_, err = env.progSvc.RecordProgress(student.ID, course.ID, lectureIDs[3], 100, true)
	require.NoError(t, err)
	progress, err = env.progSvc.GetProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.CompletePercentage)
	assert.True(t, progress.IsCompleted)

	// Un-completing a lecture drops the record back below complete.
	_, err = env.progSvc.RecordProgress(student.ID, course.ID, lectureIDs[0], 10, false)
	require.NoError(t, err)
	progress, err = env.progSvc.GetProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, progress.CompletePercentage)
	assert.False(t, progress.IsCompleted)
}

func TestRecordProgressRoundsToNearest(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	var lectureIDs []uint
	for i := 0; i < 3; i++ {
		lectureIDs = append(lectureIDs, env.createLecture(t, section.ID, 100, false).ID)
	}

	student := env.createUser(t, model.Student)
	_, err := env.progSvc.InitProgress(student.ID, course.ID)
	require.NoError(t, err)

	progress, err := env.progSvc.RecordProgress(student.ID, course.ID, lectureIDs[0], 50, true)
	require.NoError(t, err)
	assert.Equal(t, 33, progress.CompletePercentage)

	progress, err = env.progSvc.RecordProgress(student.ID, course.ID, lectureIDs[1], 50, true)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.CompletePercentage)
}

func TestInitProgressEmptyCourse(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	student := env.createUser(t, model.Student)

	progress, err := env.progSvc.InitProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, progress.LectureProgress)
	assert.Zero(t, progress.CompletePercentage)

	_, err = env.progSvc.RecordProgress(student.ID, course.ID, 1, 10, true)
	assert.ErrorIs(t, err, util.ErrLectureNotInProgress)
}

func TestInitProgressIdempotentAfterNewLectures(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, section.ID, 100, false)
	env.createLecture(t, section.ID, 200, false)

	student := env.createUser(t, model.Student)
	first, err := env.progSvc.InitProgress(student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, first.LectureProgress, 2)

	// Lectures added after initialization are not appended to the snapshot.
	added := env.createLecture(t, section.ID, 300, false)

	again, err := env.progSvc.InitProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, again.LectureProgress, 2)

	_, err = env.progSvc.RecordProgress(student.ID, course.ID, added.ID, 10, true)
	assert.ErrorIs(t, err, util.ErrLectureNotInProgress)
}

func TestProgressNotFound(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	student := env.createUser(t, model.Student)

	_, err := env.progSvc.RecordProgress(student.ID, course.ID, 1, 10, true)
	assert.ErrorIs(t, err, util.ErrProgressNotFound)

	_, err = env.progSvc.GetProgress(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrProgressNotFound)

	_, err = env.progSvc.InitProgress(student.ID, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
