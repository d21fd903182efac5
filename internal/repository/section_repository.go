package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) Create(section *model.Section) error {
	return r.DB.Create(section).Error
}

func (r *SectionRepository) FindByID(id uint) (*model.Section, error) {
	var section model.Section
	err := r.DB.First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// FindByCourse returns the course's sections in insertion order.
func (r *SectionRepository) FindByCourse(courseID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&sections).Error
	return sections, err
}

func (r *SectionRepository) Update(section *model.Section) error {
	return r.DB.Save(section).Error
}

// UpdateDerived writes only the derived rollup columns.
func (r *SectionRepository) UpdateDerived(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.Section{}).Where("id = ?", id).Updates(fields).Error
}

// Delete is a soft delete and is a no-op for an already-deleted id.
func (r *SectionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Section{}, id).Error
}
