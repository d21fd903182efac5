package model

// swagger:model Lecture
type Lecture struct {
	BaseModel
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	SectionID   uint   `gorm:"not null;index" json:"sectionId"`

	// Order is max(existing order in section)+1 at creation and never reused,
	// so deletions leave gaps.
	Order int `gorm:"column:lecture_order;not null" json:"order"`

	VideoMediaID string `gorm:"size:255;not null" json:"-"`
	VideoURL     string `gorm:"size:255;not null" json:"videoUrl"`
	NotesMediaID string `gorm:"size:255" json:"-"`
	NotesURL     string `gorm:"size:255" json:"notesUrl"`

	// Duration in seconds; 0 when unknown.
	Duration  int  `gorm:"default:0" json:"duration"`
	IsPreview bool `gorm:"default:false" json:"isPreview"`
}

func (Lecture) TableName() string {
	return "lectures"
}

// LectureView is the learner-facing projection of a lecture. URL fields are
// cleared unless the requester is enrolled or the lecture is a preview.
type LectureView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Duration    int    `json:"duration"`
	IsPreview   bool   `json:"isPreview"`
	VideoURL    string `json:"videoUrl,omitempty"`
	NotesURL    string `json:"notesUrl,omitempty"`
}
