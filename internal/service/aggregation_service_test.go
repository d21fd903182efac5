package service

import (
	"context"
	"sync"
	"testing"

	"learnhub_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeSectionRollup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")

	env.createLecture(t, section.ID, 100, false)
	env.createLecture(t, section.ID, 200, false)

	updated, err := env.agg.RecomputeSection(ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalLectures)
	assert.Equal(t, 300, updated.TotalDuration)

	stored := env.reloadSection(t, section.ID)
	assert.Equal(t, 2, stored.TotalLectures)
	assert.Equal(t, 300, stored.TotalDuration)
}

func TestRecomputeSectionTreatsNegativeDurationAsZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")

	env.createLecture(t, section.ID, 120, false)
	env.createLecture(t, section.ID, -30, false)

	updated, err := env.agg.RecomputeSection(ctx, section.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalLectures)
	assert.Equal(t, 120, updated.TotalDuration)
}

func TestRecomputeCourseSumsSectionRollups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)

	first := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, first.ID, 100, false)
	env.createLecture(t, first.ID, 200, false)

	second := env.createSection(t, course.ID, "Advanced")
	env.createLecture(t, second.ID, 300, false)

	_, err := env.agg.RecomputeSection(ctx, first.ID)
	require.NoError(t, err)
	_, err = env.agg.RecomputeSection(ctx, second.ID)
	require.NoError(t, err)

	updated, err := env.agg.RecomputeCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalLectures)
	assert.Equal(t, 600, updated.TotalDuration)

	stored := env.reloadCourse(t, course.ID)
	assert.Equal(t, 3, stored.TotalLectures)
	assert.Equal(t, 600, stored.TotalDuration)
}

// The course level reads the stored section rollups, never raw lectures: a
// section whose rollup was not recomputed contributes its stale values.
func TestRecomputeCourseReadsStoredRollupsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)

	recomputed := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, recomputed.ID, 100, false)
	_, err := env.agg.RecomputeSection(ctx, recomputed.ID)
	require.NoError(t, err)

	stale := env.createSection(t, course.ID, "Advanced")
	env.createLecture(t, stale.ID, 500, false)

	updated, err := env.agg.RecomputeCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalLectures)
	assert.Equal(t, 100, updated.TotalDuration)

	env.agg.LectureChanged(ctx, stale.ID, course.ID)
	stored := env.reloadCourse(t, course.ID)
	assert.Equal(t, 2, stored.TotalLectures)
	assert.Equal(t, 600, stored.TotalDuration)
}

func TestRatingAggregateRoundsToOneDecimal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)

	for _, score := range []int{4, 5, 5} {
		student := env.createUser(t, model.Student)
		_, err := env.ratingSvc.Submit(ctx, student.ID, course.ID, RatingRequest{Score: score})
		require.NoError(t, err)
	}

	stored := env.reloadCourse(t, course.ID)
	assert.InDelta(t, 4.7, stored.AverageRating, 0.001)
	assert.Equal(t, 3, stored.TotalRatings)
}

func TestFailedRecomputeMarksCourseStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)
	section := env.createSection(t, course.ID, "Basics")
	env.createLecture(t, section.ID, 100, false)
	env.agg.LectureChanged(ctx, section.ID, course.ID)

	before := env.reloadCourse(t, course.ID)

	// A missing section fails the chain before any write; the committed
	// aggregates stay as they were and the course is reported stale.
	env.agg.LectureChanged(ctx, section.ID+999, course.ID)

	assert.Contains(t, env.agg.StaleCourses(), course.ID)
	after := env.reloadCourse(t, course.ID)
	assert.Equal(t, before.TotalLectures, after.TotalLectures)
	assert.Equal(t, before.TotalDuration, after.TotalDuration)

	// The next successful recompute clears the stale flag.
	_, err := env.agg.RecomputeCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, env.agg.StaleCourses())
}

func TestConcurrentRatingRecomputesConverge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, instructor.ID)

	students := make([]*model.User, 8)
	for i := range students {
		students[i] = env.createUser(t, model.Student)
	}

	var wg sync.WaitGroup
	for _, student := range students {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := env.ratingSvc.Submit(ctx, id, course.ID, RatingRequest{Score: 4})
			assert.NoError(t, err)
		}(student.ID)
	}
	wg.Wait()

	_, err := env.agg.RecomputeCourse(ctx, course.ID)
	require.NoError(t, err)

	stored := env.reloadCourse(t, course.ID)
	assert.Equal(t, 8, stored.TotalRatings)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.001)
}
