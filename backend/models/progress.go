package models

type UserCourseProgress struct {
	UserID                string            `json:"userId" dynamodbav:"userId"`
	CourseID              string            `json:"courseId" dynamodbav:"courseId"`
	EnrollmentDate        string            `json:"enrollmentDate" dynamodbav:"enrollmentDate"`
	OverallProgress       float64           `json:"overallProgress" dynamodbav:"overallProgress"` // 0.0 - 1.0
	Sections              []SectionProgress `json:"sections" dynamodbav:"sections"`
	LastAccessedTimestamp string            `json:"lastAccessedTimestamp" dynamodbav:"lastAccessedTimestamp"`
}

type SectionProgress struct {
	SectionID string            `json:"sectionId" dynamodbav:"sectionId" validate:"required"`
	Chapters  []ChapterProgress `json:"chapters" dynamodbav:"chapters" validate:"dive"`
}

type ChapterProgress struct {
	ChapterID string `json:"chapterId" dynamodbav:"chapterId" validate:"required"`
	Completed bool   `json:"completed" dynamodbav:"completed"`
}
