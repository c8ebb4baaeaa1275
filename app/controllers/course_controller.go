package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/contentpolicy"
	"coursebox/internal/pkg/jobqueue"
	"coursebox/internal/pkg/metrics/counter"
	"coursebox/internal/pkg/policy"
	"coursebox/internal/pkg/usercontext"
)

// HandleListCourses returns the courses visible to the caller, paginated.
// Moderators see the full catalog, everyone else only their own courses.
func HandleListCourses(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	if !policy.Can(actor, policy.ActionList, nil) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Authentication required")
	}

	page, pageSize := parsePagination(c)
	courses, total, err := repository.GetGlobalFactory().GetCourseRepository().ListVisible(actor, (page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load courses")
	}

	items := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		items = append(items, courseResponse(&courses[i]))
	}
	return c.JSON(paginatedResponse(items, total, page, pageSize))
}

type courseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PreviewURL  *string `json:"preview_url"`
}

// HandleCreateCourse creates a course owned by the caller. Moderators curate
// existing content and may not create their own.
func HandleCreateCourse(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	if !policy.Can(actor, policy.ActionCreate, nil) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Moderators cannot create courses")
	}

	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	course := &models.Course{OwnerID: &actor.ID}
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.PreviewURL != nil {
		course.PreviewURL = strings.TrimSpace(*req.PreviewURL)
	}

	if err := validateCourseContent(course); err != nil {
		return respondContentViolation(c, err)
	}
	if err := course.Validate(); err != nil {
		return validationError(c, "title", "Title is required")
	}

	if err := repository.GetGlobalFactory().GetCourseRepository().Create(course); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create course")
	}

	return c.Status(fiber.StatusCreated).JSON(courseResponse(course))
}

// HandleGetCourse returns a single visible course with its lessons, lesson
// count and the caller's subscription state. Invisible courses read as 404.
func HandleGetCourse(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid course id")
	}

	repos := repository.GetGlobalFactory()
	course, err := repos.GetCourseRepository().GetVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Course not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
	}

	subscribed, err := repos.GetSubscriptionRepository().IsSubscribed(actor.ID, course.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subscription state")
	}

	if err := counter.AddCourseView(course.ID); err != nil {
		log.Debugf("[Courses] failed to count view for course %d: %v", course.ID, err)
	}

	lessons := make([]fiber.Map, 0, len(course.Lessons))
	for i := range course.Lessons {
		lessons = append(lessons, lessonResponse(&course.Lessons[i]))
	}

	resp := courseResponse(course)
	resp["lessons"] = lessons
	resp["lessons_count"] = len(course.Lessons)
	resp["subscribed"] = subscribed
	return c.JSON(resp)
}

// HandleUpdateCourse applies a partial update and notifies subscribers.
// Ownership is never re-stamped on update.
func HandleUpdateCourse(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid course id")
	}

	repo := repository.GetGlobalFactory().GetCourseRepository()
	course, err := repo.GetVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Course not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
	}
	if !policy.Can(actor, policy.ActionUpdate, course.OwnerID) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Only the owner or a moderator may update this course")
	}

	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.PreviewURL != nil {
		course.PreviewURL = strings.TrimSpace(*req.PreviewURL)
	}

	if err := validateCourseContent(course); err != nil {
		return respondContentViolation(c, err)
	}
	if err := course.Validate(); err != nil {
		return validationError(c, "title", "Title is required")
	}

	if err := repo.Update(course); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update course")
	}

	notifySubscribers(course.ID)

	return c.JSON(courseResponse(course))
}

// HandleDeleteCourse removes a course and its lessons. Only the owner may
// delete, and moderators are explicitly excluded.
func HandleDeleteCourse(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid course id")
	}

	repo := repository.GetGlobalFactory().GetCourseRepository()
	course, err := repo.GetVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Course not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
	}
	if !policy.Can(actor, policy.ActionDelete, course.OwnerID) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Only the owner may delete this course")
	}

	if err := repo.Delete(course.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete course")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func validateCourseContent(course *models.Course) error {
	if err := contentpolicy.ValidateNoExternalLinks(course.Description); err != nil {
		return fieldViolation("description", err)
	}
	return nil
}

// fieldViolation attaches the offending field to a content-policy error.
func fieldViolation(field string, err error) error {
	var ve *contentpolicy.ValidationError
	if errors.As(err, &ve) {
		return &contentpolicy.ValidationError{Field: field, Message: ve.Message}
	}
	return err
}

func respondContentViolation(c *fiber.Ctx, err error) error {
	var ve *contentpolicy.ValidationError
	if errors.As(err, &ve) {
		return validationError(c, ve.Field, ve.Message)
	}
	return jsonError(c, fiber.StatusUnprocessableEntity, "validation_error", err.Error())
}

// enqueueNotification is swapped out by tests to observe which course a
// write fanned out to.
var enqueueNotification = func(courseID uint) {
	manager := jobqueue.GetManager()
	if !manager.IsRunning() {
		return
	}
	jobqueue.EnqueueCourseNotification(manager.GetQueue(), courseID)
	log.Debugf("[Courses] queued subscriber notification for course %d", courseID)
}

// notifySubscribers enqueues the fan-out job. Queue failures never block the
// write that triggered them.
func notifySubscribers(courseID uint) {
	enqueueNotification(courseID)
}
