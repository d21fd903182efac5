package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDWithTree loads the course with its sections (insertion order) and
// their lectures (by order key).
func (r *CourseRepository) FindByIDWithTree(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.id ASC")
		}).
		Preload("Sections.Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("lectures.lecture_order ASC")
		}).
		Preload("Instructor").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListPublished(category, level string, page, limit int) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{}).Where("is_published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// UpdateDerived writes only the derived statistics columns; every other
// writer goes through Update.
func (r *CourseRepository) UpdateDerived(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

// Delete is a soft delete and is a no-op for an already-deleted id.
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) Enroll(courseID, userID uint) error {
	course := model.Course{BaseModel: model.BaseModel{ID: courseID}}
	user := model.User{BaseModel: model.BaseModel{ID: userID}}
	return r.DB.Model(&course).Association("EnrolledStudents").Append(&user)
}

func (r *CourseRepository) IsEnrolled(courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("course_enrollments").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) ClearEnrollments(courseID uint) error {
	course := model.Course{BaseModel: model.BaseModel{ID: courseID}}
	return r.DB.Model(&course).Association("EnrolledStudents").Clear()
}
