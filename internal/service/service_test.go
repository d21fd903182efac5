package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection serializes writes; sqlite has no row locking.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// fakeMediaStore records every store and delete attempt; individual media ids
// can be made to fail deletion.
type fakeMediaStore struct {
	mu         sync.Mutex
	stored     []string
	deleted    []string
	failDelete map[string]error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{failDelete: make(map[string]error)}
}

func (f *fakeMediaStore) Store(ctx context.Context, localPath string, kind MediaKind) (*MediaObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("%s/%s", kindPrefix(kind), uuid.New().String())
	f.stored = append(f.stored, id)
	return &MediaObject{MediaID: id, URL: "/" + id}, nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, mediaID string, kind MediaKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, mediaID)
	if err, ok := f.failDelete[mediaID]; ok {
		return err
	}
	return nil
}

func (f *fakeMediaStore) deleteAttempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

type testEnv struct {
	db       *gorm.DB
	media    *fakeMediaStore
	users    *repository.UserRepository
	courses  *repository.CourseRepository
	sections *repository.SectionRepository
	lectures *repository.LectureRepository
	ratings  *repository.RatingRepository
	progress *repository.ProgressRepository

	agg       *AggregationService
	cascade   *CascadeService
	ratingSvc *RatingService
	progSvc   *ProgressService
	enrollSvc *EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	media := newFakeMediaStore()

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	sections := repository.NewSectionRepository(db)
	lectures := repository.NewLectureRepository(db)
	ratings := repository.NewRatingRepository(db)
	progress := repository.NewProgressRepository(db)

	agg := NewAggregationService(sections, lectures, courses, ratings, nil)

	return &testEnv{
		db:        db,
		media:     media,
		users:     users,
		courses:   courses,
		sections:  sections,
		lectures:  lectures,
		ratings:   ratings,
		progress:  progress,
		agg:       agg,
		cascade:   NewCascadeService(courses, sections, lectures, ratings, progress, media, agg),
		ratingSvc: NewRatingService(ratings, courses, agg),
		progSvc:   NewProgressService(progress, courses, sections, lectures),
		enrollSvc: NewEnrollmentService(courses, users),
	}
}

func (e *testEnv) createUser(t *testing.T, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test User",
		Email:    uuid.New().String() + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCourse(t *testing.T, instructorID uint) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:            "Go from Scratch",
		Description:      "Build real services in Go.",
		Category:         "Programming Languages",
		InstructorID:     instructorID,
		IsPublished:      true,
		Thumbnail:        "/uploads/images/thumb.jpg",
		ThumbnailMediaID: "images/" + uuid.New().String(),
	}
	require.NoError(t, e.db.Create(course).Error)
	return course
}

func (e *testEnv) createSection(t *testing.T, courseID uint, title string) *model.Section {
	t.Helper()
	section := &model.Section{Title: title, CourseID: courseID}
	require.NoError(t, e.db.Create(section).Error)
	return section
}

func (e *testEnv) createLecture(t *testing.T, sectionID uint, duration int, withNotes bool) *model.Lecture {
	t.Helper()
	maxOrder, err := e.lectures.MaxOrder(sectionID)
	require.NoError(t, err)

	lecture := &model.Lecture{
		Title:        "Lecture",
		SectionID:    sectionID,
		Order:        maxOrder + 1,
		Duration:     duration,
		VideoMediaID: "videos/" + uuid.New().String(),
		VideoURL:     "/uploads/videos/lecture.mp4",
	}
	if withNotes {
		lecture.NotesMediaID = "documents/" + uuid.New().String()
		lecture.NotesURL = "/uploads/documents/notes.pdf"
	}
	require.NoError(t, e.db.Create(lecture).Error)
	return lecture
}

func (e *testEnv) reloadCourse(t *testing.T, id uint) *model.Course {
	t.Helper()
	course, err := e.courses.FindByID(id)
	require.NoError(t, err)
	return course
}

func (e *testEnv) reloadSection(t *testing.T, id uint) *model.Section {
	t.Helper()
	section, err := e.sections.FindByID(id)
	require.NoError(t, err)
	return section
}
