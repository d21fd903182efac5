package model

// swagger:model Section
type Section struct {
	BaseModel
	Title    string `gorm:"size:100;not null" json:"title"`
	CourseID uint   `gorm:"not null;index" json:"courseId"`

	// Position is assigned by the course author; it is not auto-sequenced and
	// sections are still listed in insertion order.
	Position int `gorm:"default:0" json:"position"`

	Lectures []Lecture `gorm:"foreignKey:SectionID" json:"lectures,omitempty"`

	TotalLectures int `gorm:"default:0" json:"totalLectures"`
	TotalDuration int `gorm:"default:0" json:"totalDuration"`
}

func (Section) TableName() string {
	return "sections"
}
