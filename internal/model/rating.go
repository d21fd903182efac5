package model

const MaxReviewLength = 500

// swagger:model Rating
//
// At most one rating may exist per (student, course) pair.
type Rating struct {
	BaseModel
	CourseID  uint   `gorm:"not null;uniqueIndex:idx_course_student" json:"courseId"`
	StudentID uint   `gorm:"not null;uniqueIndex:idx_course_student" json:"studentId"`
	Student   *User  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Score     int    `gorm:"not null" json:"score"`
	Review    string `gorm:"size:500" json:"review"`
}

func (Rating) TableName() string {
	return "ratings"
}
