package repository

import (
	"time"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Create persists the progress record together with its lecture sub-records.
func (r *ProgressRepository) Create(progress *model.CourseProgress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Preload("LectureProgress").
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) SaveLectureProgress(lp *model.LectureProgress) error {
	return r.DB.Save(lp).Error
}

// UpdateDerived writes the recomputed percentage fields and touches
// last_accessed.
func (r *ProgressRepository) UpdateDerived(id uint, percentage int, completed bool) error {
	return r.DB.Model(&model.CourseProgress{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"complete_percentage": percentage,
			"is_completed":        completed,
			"last_accessed":       time.Now(),
		}).Error
}

func (r *ProgressRepository) DeleteByCourse(courseID uint) error {
	var ids []uint
	err := r.DB.Model(&model.CourseProgress{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := r.DB.Where("course_progress_id IN ?", ids).
			Delete(&model.LectureProgress{}).Error; err != nil {
			return err
		}
	}
	return r.DB.Where("course_id = ?", courseID).
		Delete(&model.CourseProgress{}).Error
}
