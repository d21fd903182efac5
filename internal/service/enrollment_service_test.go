package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollStudentIdempotent(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	student := env.createUser(t, model.Student)

	require.NoError(t, env.enrollSvc.EnrollStudent(course.ID, student.ID))
	require.NoError(t, env.enrollSvc.EnrollStudent(course.ID, student.ID))

	var count int64
	require.NoError(t, env.db.Table("course_enrollments").
		Where("course_id = ? AND user_id = ?", course.ID, student.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	enrolled, err := env.enrollSvc.IsEnrolled(course.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestEnrollUnknownCourseOrUser(t *testing.T) {
	env := newTestEnv(t)

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	student := env.createUser(t, model.Student)

	assert.ErrorIs(t, env.enrollSvc.EnrollStudent(999, student.ID), util.ErrCourseNotFound)
	assert.ErrorIs(t, env.enrollSvc.EnrollStudent(course.ID, 999), util.ErrUserNotFound)
}

func TestResolveLectureVisibility(t *testing.T) {
	lecture := model.Lecture{
		BaseModel:   model.BaseModel{ID: 7},
		Title:       "Interfaces",
		Description: "Accept interfaces, return structs.",
		Order:       3,
		Duration:    420,
		VideoURL:    "/uploads/videos/interfaces.mp4",
		NotesURL:    "/uploads/documents/interfaces.pdf",
	}

	cases := []struct {
		name     string
		enrolled bool
		preview  bool
		wantFull bool
	}{
		{"not enrolled, not preview", false, false, false},
		{"not enrolled, preview", false, true, true},
		{"enrolled, not preview", true, false, true},
		{"enrolled, preview", true, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lecture.IsPreview = tc.preview
			view := ResolveLectureVisibility(lecture, tc.enrolled)

			assert.Equal(t, lecture.ID, view.ID)
			assert.Equal(t, lecture.Title, view.Title)
			assert.Equal(t, lecture.Order, view.Order)
			assert.Equal(t, lecture.Duration, view.Duration)
			assert.Equal(t, tc.preview, view.IsPreview)

			if tc.wantFull {
				assert.Equal(t, lecture.VideoURL, view.VideoURL)
				assert.Equal(t, lecture.NotesURL, view.NotesURL)
			} else {
				assert.Empty(t, view.VideoURL)
				assert.Empty(t, view.NotesURL)
			}
		})
	}
}
