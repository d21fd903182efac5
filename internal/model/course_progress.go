package model

import (
	"time"
)

// swagger:model CourseProgress
//
// The lecture sub-records are a snapshot of the course's lecture set at
// initialization time; lectures added later are not appended.
type CourseProgress struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_user_course" json:"courseId"`

	LectureProgress []LectureProgress `gorm:"foreignKey:CourseProgressID" json:"lectureProgress,omitempty"`

	CompletePercentage int       `gorm:"default:0" json:"completePercentage"`
	IsCompleted        bool      `gorm:"default:false" json:"isCompleted"`
	LastAccessed       time.Time `gorm:"autoCreateTime" json:"lastAccessed"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// swagger:model LectureProgress
type LectureProgress struct {
	BaseModel
	CourseProgressID uint      `gorm:"not null;index" json:"-"`
	LectureID        uint      `gorm:"not null" json:"lectureId"`
	IsCompleted      bool      `gorm:"default:false" json:"isCompleted"`
	WatchTime        int       `gorm:"default:0" json:"watchTime"`
	LastWatched      time.Time `gorm:"autoCreateTime" json:"lastWatched"`
}

func (LectureProgress) TableName() string {
	return "lecture_progress"
}
