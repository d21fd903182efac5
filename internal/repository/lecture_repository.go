package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) Create(lecture *model.Lecture) error {
	return r.DB.Create(lecture).Error
}

func (r *LectureRepository) FindByID(id uint) (*model.Lecture, error) {
	var lecture model.Lecture
	err := r.DB.First(&lecture, id).Error
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) FindBySection(sectionID uint) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.DB.Where("section_id = ?", sectionID).
		Order("lecture_order ASC").
		Find(&lectures).Error
	return lectures, err
}

// MaxOrder returns the highest order key in the section, 0 when empty.
// Orders are never reused, so gaps remain after deletion.
func (r *LectureRepository) MaxOrder(sectionID uint) (int, error) {
	var maxOrder *int
	err := r.DB.Unscoped().Model(&model.Lecture{}).
		Where("section_id = ?", sectionID).
		Select("MAX(lecture_order)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder, nil
}

func (r *LectureRepository) Update(lecture *model.Lecture) error {
	return r.DB.Save(lecture).Error
}

// Delete is a soft delete and is a no-op for an already-deleted id.
func (r *LectureRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lecture{}, id).Error
}
