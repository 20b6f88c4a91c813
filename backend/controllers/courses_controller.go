package controllers

import (
	"errors"
	"time"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/store"
	"learnhub/backend/uploads"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CoursesController struct {
	Courses  store.Courses
	Uploader uploads.VideoUploader
	Cfg      *config.Config
	Log      *zap.Logger
}

func NewCoursesController(courses store.Courses, uploader uploads.VideoUploader, cfg *config.Config, log *zap.Logger) *CoursesController {
	return &CoursesController{Courses: courses, Uploader: uploader, Cfg: cfg, Log: log}
}

// ListCourses godoc
// @Summary List courses
// @Description Returns all courses, optionally only those of one category
// @Tags courses
// @Produce json
// @Param category query string false "Exact category, or all"
// @Success 200 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "all" {
		category = ""
	}

	courses, err := cc.Courses.List(c.UserContext(), category)
	if err != nil {
		return utils.InternalServerError(c, "Error retrieving courses", err)
	}
	return utils.Success(c, "Courses retrieved successfully", courses)
}

// GetCourse godoc
// @Summary Get course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /courses/{courseId} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	course, err := cc.Courses.Get(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Error retrieving course", err)
	}
	return utils.Success(c, "Course retrieved successfully", course)
}

// CreateCourse godoc
// @Summary Create course
// @Description Creates an empty draft course owned by the calling teacher
// @Tags courses
// @Accept json
// @Produce json
// @Param input body models.CreateCourseRequest true "Teacher"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input models.CreateCourseRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return utils.BadRequest(c, "Teacher Id and name are required", err)
	}

	if input.TeacherID != middleware.CurrentUserID(c) {
		return utils.Forbidden(c, "Not authorized to create courses for another teacher")
	}

	now := utils.Timestamp(time.Now())
	course := &models.Course{
		CourseID:    uuid.NewString(),
		TeacherID:   input.TeacherID,
		TeacherName: input.TeacherName,
		Title:       "Untitled Course",
		Description: "",
		Category:    "Uncategorized",
		Image:       "",
		Price:       0,
		Level:       models.LevelBeginner,
		Status:      models.StatusDraft,
		Sections:    []models.Section{},
		Enrollments: []models.Enrollment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := cc.Courses.Put(c.UserContext(), course); err != nil {
		return utils.InternalServerError(c, "Error creating course", err)
	}
	return utils.Success(c, "Course created successfully", course)
}

// UpdateCourse godoc
// @Summary Update course
// @Description Updates the fields present in the body. Price is a decimal amount and is stored in cents.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param input body models.UpdateCourseRequest true "Course fields"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /courses/{courseId} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	course, err := cc.Courses.Get(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Error updating course", err)
	}

	if course.TeacherID != middleware.CurrentUserID(c) {
		return utils.Forbidden(c, "Not authorized to update this course")
	}

	var input models.UpdateCourseRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid course data", err)
	}

	// Price is validated before anything is applied so a bad value leaves
	// the stored course untouched.
	if input.Price != nil && *input.Price != "" {
		price, err := utils.ParsePrice(string(*input.Price))
		if err != nil {
			return utils.BadRequest(c, "Invalid price format", err)
		}
		course.Price = price
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Category != nil {
		course.Category = *input.Category
	}
	if input.Image != nil {
		course.Image = *input.Image
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Status != nil {
		course.Status = *input.Status
	}
	if input.Sections != nil {
		course.Sections = input.Sections.ToSections()
	}

	course.UpdatedAt = utils.Timestamp(time.Now())
	course.Normalize()

	if err := cc.Courses.Put(c.UserContext(), course); err != nil {
		return utils.InternalServerError(c, "Error updating course", err)
	}
	return utils.Success(c, "Course updated successfully", course)
}

// DeleteCourse godoc
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /courses/{courseId} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	course, err := cc.Courses.Get(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Error deleting course", err)
	}

	if course.TeacherID != middleware.CurrentUserID(c) {
		return utils.Forbidden(c, "Not authorized to delete this course")
	}

	if err := cc.Courses.Delete(c.UserContext(), course.CourseID); err != nil {
		return utils.InternalServerError(c, "Error deleting course", err)
	}
	return utils.Success(c, "Course deleted successfully", course)
}

// GetUploadVideoURL godoc
// @Summary Get video upload URL
// @Description Issues a presigned PUT URL valid for 60 seconds and the CDN URL the video will be served from
// @Tags courses
// @Accept json
// @Produce json
// @Param input body models.UploadURLRequest true "File"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /courses/upload-url [post]
func (cc *CoursesController) GetUploadVideoURL(c *fiber.Ctx) error {
	var input models.UploadURLRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return utils.BadRequest(c, "File name and type are required", err)
	}

	if cc.Uploader == nil {
		return utils.InternalServerError(c, "Error generating upload URL", errors.New("video uploads are not configured"))
	}

	urls, err := cc.Uploader.UploadURL(c.UserContext(), input.FileName, input.FileType)
	if err != nil {
		cc.Log.Error("presign video upload", zap.String("file_name", input.FileName), zap.Error(err))
		return utils.InternalServerError(c, "Error generating upload URL", err)
	}
	return utils.Success(c, "Upload URL generated successfully", urls)
}
