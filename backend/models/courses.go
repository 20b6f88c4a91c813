package models

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"

	StatusDraft     = "Draft"
	StatusPublished = "Published"

	ChapterText  = "Text"
	ChapterQuiz  = "Quiz"
	ChapterVideo = "Video"
)

type Course struct {
	CourseID    string       `json:"courseId" dynamodbav:"courseId"`
	TeacherID   string       `json:"teacherId" dynamodbav:"teacherId"`
	TeacherName string       `json:"teacherName" dynamodbav:"teacherName"`
	Title       string       `json:"title" dynamodbav:"title"`
	Description string       `json:"description" dynamodbav:"description"`
	Category    string       `json:"category" dynamodbav:"category"`
	Image       string       `json:"image" dynamodbav:"image"`
	Price       int64        `json:"price" dynamodbav:"price"` // minor units (cents)
	Level       string       `json:"level" dynamodbav:"level"`   // Beginner, Intermediate, Advanced
	Status      string       `json:"status" dynamodbav:"status"` // Draft, Published
	Sections    []Section    `json:"sections" dynamodbav:"sections"`
	Enrollments []Enrollment `json:"enrollments" dynamodbav:"enrollments"`
	CreatedAt   string       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string       `json:"updatedAt" dynamodbav:"updatedAt"`
}

type Section struct {
	SectionID          string    `json:"sectionId" dynamodbav:"sectionId"`
	SectionTitle       string    `json:"sectionTitle" dynamodbav:"sectionTitle"`
	SectionDescription string    `json:"sectionDescription,omitempty" dynamodbav:"sectionDescription,omitempty"`
	Chapters           []Chapter `json:"chapters" dynamodbav:"chapters"`
}

type Chapter struct {
	ChapterID string    `json:"chapterId" dynamodbav:"chapterId"`
	Type      string    `json:"type" dynamodbav:"type"` // Text, Quiz, Video
	Title     string    `json:"title" dynamodbav:"title"`
	Content   string    `json:"content" dynamodbav:"content"`
	Comments  []Comment `json:"comments,omitempty" dynamodbav:"comments,omitempty"`
	Video     string    `json:"video,omitempty" dynamodbav:"video,omitempty"`
}

type Comment struct {
	CommentID string `json:"commentId" dynamodbav:"commentId"`
	UserID    string `json:"userId" dynamodbav:"userId"`
	Text      string `json:"text" dynamodbav:"text"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"`
}

type Enrollment struct {
	UserID string `json:"userId" dynamodbav:"userId"`
}

// IsEnrolled reports whether userID appears in the course enrollments.
func (c *Course) IsEnrolled(userID string) bool {
	for _, e := range c.Enrollments {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// FindChapter returns the chapter addressed by sectionID/chapterID, or nil.
func (c *Course) FindChapter(sectionID, chapterID string) *Chapter {
	for i := range c.Sections {
		if c.Sections[i].SectionID != sectionID {
			continue
		}
		for j := range c.Sections[i].Chapters {
			if c.Sections[i].Chapters[j].ChapterID == chapterID {
				return &c.Sections[i].Chapters[j]
			}
		}
	}
	return nil
}

// Normalize fills the fields older or hand-written items may lack with the
// same defaults a freshly created course gets.
func (c *Course) Normalize() {
	if c.Title == "" {
		c.Title = "Untitled Course"
	}
	if c.Category == "" {
		c.Category = "Uncategorized"
	}
	if c.Level == "" {
		c.Level = LevelBeginner
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	if c.Sections == nil {
		c.Sections = []Section{}
	}
	if c.Enrollments == nil {
		c.Enrollments = []Enrollment{}
	}
}
