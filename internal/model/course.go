package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

// CourseCategories lists the categories a course may be filed under.
var CourseCategories = []string{
	"Web Development",
	"Mobile Development",
	"Data Science",
	"Programming Languages",
	"Machine Learning",
	"AI",
	"UI/UX Design",
	"Cybersecurity",
	"Business",
	"Other",
}

func IsValidCategory(category string) bool {
	for _, c := range CourseCategories {
		if c == category {
			return true
		}
	}
	return false
}

// swagger:model Course
//
// TotalLectures, TotalDuration, AverageRating and TotalRatings are derived
// fields; only the aggregation service writes them.
type Course struct {
	BaseModel
	Title            string      `gorm:"size:100;not null" json:"title"`
	Subtitle         string      `gorm:"size:100" json:"subtitle"`
	Description      string      `gorm:"type:text;not null" json:"description"`
	Category         string      `gorm:"size:50;not null" json:"category"`
	Level            CourseLevel `gorm:"size:20;default:'beginner'" json:"level"`
	Price            float64     `gorm:"not null;default:0" json:"price"`
	Thumbnail        string      `gorm:"size:255" json:"thumbnail"`
	ThumbnailMediaID string      `gorm:"size:255" json:"-"`
	InstructorID     uint        `gorm:"not null;index" json:"instructorId"`
	Instructor       *User       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	IsPublished      bool        `gorm:"default:false" json:"isPublished"`

	// Sections are ordered by insertion, not by their Position key.
	Sections         []Section `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
	EnrolledStudents []User    `gorm:"many2many:course_enrollments" json:"enrolledStudents,omitempty"`

	TotalLectures int     `gorm:"default:0" json:"totalLectures"`
	TotalDuration int     `gorm:"default:0" json:"totalDuration"`
	AverageRating float64 `gorm:"default:0" json:"averageRating"`
	TotalRatings  int     `gorm:"default:0" json:"totalRatings"`
}

func (Course) TableName() string {
	return "courses"
}
