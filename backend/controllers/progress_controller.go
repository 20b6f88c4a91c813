package controllers

import (
	"errors"
	"time"

	"learnhub/backend/models"
	"learnhub/backend/store"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Progress store.Progress
	Courses  store.Courses
}

func NewProgressController(progress store.Progress, courses store.Courses) *ProgressController {
	return &ProgressController{Progress: progress, Courses: courses}
}

// GetUserEnrolledCourses godoc
// @Summary List enrolled courses
// @Description Returns the courses the user has a progress record for
// @Tags progress
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /users/{userId}/enrolled-courses [get]
func (pc *ProgressController) GetUserEnrolledCourses(c *fiber.Ctx) error {
	userID := c.Params("userId")

	records, err := pc.Progress.ListByUser(c.UserContext(), userID)
	if err != nil {
		return utils.InternalServerError(c, "Error retrieving enrolled courses", err)
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.CourseID)
	}

	courses, err := pc.Courses.BatchGet(c.UserContext(), ids)
	if err != nil {
		return utils.InternalServerError(c, "Error retrieving enrolled courses", err)
	}
	for i := range courses {
		courses[i].Normalize()
	}
	return utils.Success(c, "Enrolled courses retrieved successfully", courses)
}

// GetUserCourseProgress godoc
// @Summary Get course progress
// @Tags progress
// @Produce json
// @Param userId path string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /users/{userId}/courses/{courseId}/progress [get]
func (pc *ProgressController) GetUserCourseProgress(c *fiber.Ctx) error {
	progress, err := pc.Progress.Get(c.UserContext(), c.Params("userId"), c.Params("courseId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Course progress not found for this user")
		}
		return utils.InternalServerError(c, "Error retrieving user course progress", err)
	}
	return utils.Success(c, "Course progress retrieved successfully", progress)
}

// UpdateUserCourseProgress godoc
// @Summary Update course progress
// @Description Merges the submitted chapter completion flags into the stored progress, creating it when absent
// @Tags progress
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param courseId path string true "Course ID"
// @Param input body models.UpdateProgressRequest true "Sections"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /users/{userId}/courses/{courseId}/progress [put]
func (pc *ProgressController) UpdateUserCourseProgress(c *fiber.Ctx) error {
	userID := c.Params("userId")
	courseID := c.Params("courseId")

	var input models.UpdateProgressRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return utils.HandleError(c, err, "Error updating user course progress")
	}

	now := utils.Timestamp(time.Now())
	progress, err := pc.Progress.Get(c.UserContext(), userID, courseID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		progress = &models.UserCourseProgress{
			UserID:         userID,
			CourseID:       courseID,
			EnrollmentDate: now,
			Sections:       utils.MergeSections(nil, input.Sections),
		}
	case err != nil:
		return utils.InternalServerError(c, "Error updating user course progress", err)
	default:
		progress.Sections = utils.MergeSections(progress.Sections, input.Sections)
	}

	progress.OverallProgress = utils.CalculateOverallProgress(progress.Sections)
	progress.LastAccessedTimestamp = now

	if err := pc.Progress.Put(c.UserContext(), progress); err != nil {
		return utils.InternalServerError(c, "Error updating user course progress", err)
	}
	return utils.Success(c, "Course progress updated successfully", progress)
}
