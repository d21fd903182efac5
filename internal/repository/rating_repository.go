package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(rating *model.Rating) error {
	return r.DB.Create(rating).Error
}

func (r *RatingRepository) FindByCourseAndStudent(courseID, studentID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.DB.Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepository) ListForCourse(courseID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.DB.Where("course_id = ?", courseID).
		Preload("Student").
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepository) Update(rating *model.Rating) error {
	return r.DB.Save(rating).Error
}

// Delete removes the row for good; a soft-deleted rating would still occupy
// the (course, student) unique slot and block re-rating.
func (r *RatingRepository) Delete(rating *model.Rating) error {
	return r.DB.Unscoped().Delete(rating).Error
}

func (r *RatingRepository) DeleteByCourse(courseID uint) error {
	return r.DB.Unscoped().Where("course_id = ?", courseID).Delete(&model.Rating{}).Error
}

// AggregateForCourse computes the course's rating aggregate in SQL. A course
// without ratings aggregates to (0, 0).
func (r *RatingRepository) AggregateForCourse(courseID uint) (float64, int64, error) {
	var result struct {
		Average float64
		Total   int64
	}
	err := r.DB.Model(&model.Rating{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS total").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Average, result.Total, nil
}
