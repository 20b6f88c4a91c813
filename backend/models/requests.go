package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type CreateCourseRequest struct {
	TeacherID   string `json:"teacherId" validate:"required"`
	TeacherName string `json:"teacherName" validate:"required"`
}

// UpdateCourseRequest only touches the fields present in the body.
type UpdateCourseRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Image       *string        `json:"image"`
	Price       *PriceInput    `json:"price"`
	Level       *string        `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Status      *string        `json:"status" validate:"omitempty,oneof=Draft Published"`
	Sections    *SectionsInput `json:"sections" validate:"omitempty,dive"`
}

// PriceInput keeps the raw decimal text of a price; clients send either
// "49.99" or 49.99.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*p = PriceInput(n.String())
	return nil
}

// SectionsInput accepts a JSON array of sections or a string holding one,
// which is what multipart course forms submit.
type SectionsInput []SectionInput

func (s *SectionsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		data = []byte(raw)
	}
	var sections []SectionInput
	if err := json.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("invalid sections: %w", err)
	}
	*s = sections
	return nil
}

type SectionInput struct {
	SectionID          string         `json:"sectionId"`
	SectionTitle       string         `json:"sectionTitle"`
	SectionDescription string         `json:"sectionDescription"`
	Chapters           []ChapterInput `json:"chapters" validate:"dive"`
}

type ChapterInput struct {
	ChapterID string    `json:"chapterId"`
	Type      string    `json:"type" validate:"omitempty,oneof=Text Quiz Video"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Comments  []Comment `json:"comments"`
	Video     string    `json:"video"`
}

// ToSections converts the input into course sections, generating ids for
// any section or chapter that arrives without one.
func (s SectionsInput) ToSections() []Section {
	sections := make([]Section, 0, len(s))
	for _, in := range s {
		section := Section{
			SectionID:          in.SectionID,
			SectionTitle:       in.SectionTitle,
			SectionDescription: in.SectionDescription,
			Chapters:           make([]Chapter, 0, len(in.Chapters)),
		}
		if section.SectionID == "" {
			section.SectionID = uuid.NewString()
		}
		for _, ch := range in.Chapters {
			chapter := Chapter{
				ChapterID: ch.ChapterID,
				Type:      ch.Type,
				Title:     ch.Title,
				Content:   ch.Content,
				Comments:  ch.Comments,
				Video:     ch.Video,
			}
			if chapter.ChapterID == "" {
				chapter.ChapterID = uuid.NewString()
			}
			section.Chapters = append(section.Chapters, chapter)
		}
		sections = append(sections, section)
	}
	return sections
}

type UploadURLRequest struct {
	FileName string `json:"fileName" validate:"required,excludesall=/\\"`
	FileType string `json:"fileType" validate:"required"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	VideoURL  string `json:"videoUrl"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type PaymentIntentRequest struct {
	Amount int64 `json:"amount"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type CreateTransactionRequest struct {
	UserID          string `json:"userId" validate:"required"`
	CourseID        string `json:"courseId" validate:"required"`
	TransactionID   string `json:"transactionId" validate:"required"`
	Amount          int64  `json:"amount" validate:"gte=0"`
	PaymentProvider string `json:"paymentProvider" validate:"omitempty,oneof=stripe"`
}

type PurchaseResult struct {
	Transaction    Transaction        `json:"transaction"`
	CourseProgress UserCourseProgress `json:"courseProgress"`
}

type UpdateProgressRequest struct {
	Sections []SectionProgress `json:"sections" validate:"dive"`
}
