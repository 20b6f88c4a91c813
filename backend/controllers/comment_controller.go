package controllers

import (
	"errors"
	"time"

	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/store"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentsController struct {
	Courses store.Courses
}

func NewCommentsController(courses store.Courses) *CommentsController {
	return &CommentsController{Courses: courses}
}

// GetChapterComments godoc
// @Summary List chapter comments
// @Tags comments
// @Produce json
// @Param courseId path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param chapterId path string true "Chapter ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /courses/{courseId}/sections/{sectionId}/chapters/{chapterId}/comments [get]
func (cc *CommentsController) GetChapterComments(c *fiber.Ctx) error {
	course, err := cc.Courses.Get(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Error retrieving comments", err)
	}

	chapter := course.FindChapter(c.Params("sectionId"), c.Params("chapterId"))
	if chapter == nil {
		return utils.NotFound(c, "Chapter not found")
	}

	comments := chapter.Comments
	if comments == nil {
		comments = []models.Comment{}
	}
	return utils.Success(c, "Comments retrieved successfully", comments)
}

// AddChapterComment godoc
// @Summary Add chapter comment
// @Description Only the course teacher and enrolled users may comment
// @Tags comments
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param chapterId path string true "Chapter ID"
// @Param input body models.AddCommentRequest true "Comment"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /courses/{courseId}/sections/{sectionId}/chapters/{chapterId}/comments [post]
func (cc *CommentsController) AddChapterComment(c *fiber.Ctx) error {
	var input models.AddCommentRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return utils.BadRequest(c, "Comment text is required", err)
	}

	course, err := cc.Courses.Get(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Error adding comment", err)
	}

	userID := middleware.CurrentUserID(c)
	if course.TeacherID != userID && !course.IsEnrolled(userID) {
		return utils.Forbidden(c, "Only enrolled users can comment")
	}

	chapter := course.FindChapter(c.Params("sectionId"), c.Params("chapterId"))
	if chapter == nil {
		return utils.NotFound(c, "Chapter not found")
	}

	now := utils.Timestamp(time.Now())
	comment := models.Comment{
		CommentID: uuid.NewString(),
		UserID:    userID,
		Text:      input.Text,
		Timestamp: now,
	}
	chapter.Comments = append(chapter.Comments, comment)
	course.UpdatedAt = now

	if err := cc.Courses.Put(c.UserContext(), course); err != nil {
		return utils.InternalServerError(c, "Error adding comment", err)
	}
	return utils.Success(c, "Comment added successfully", comment)
}
