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
	"coursebox/internal/pkg/metrics/counter"
	"coursebox/internal/pkg/policy"
	"coursebox/internal/pkg/usercontext"
)

// HandleListLessons returns the lessons visible to the caller, paginated.
func HandleListLessons(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	if !policy.Can(actor, policy.ActionList, nil) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Authentication required")
	}

	page, pageSize := parsePagination(c)
	lessons, total, err := repository.GetGlobalFactory().GetLessonRepository().ListVisible(actor, (page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load lessons")
	}

	items := make([]fiber.Map, 0, len(lessons))
	for i := range lessons {
		items = append(items, lessonResponse(&lessons[i]))
	}
	return c.JSON(paginatedResponse(items, total, page, pageSize))
}

type lessonRequest struct {
	CourseID    *uint   `json:"course_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PreviewURL  *string `json:"preview_url"`
	VideoURL    *string `json:"video_url"`
}

// HandleCreateLesson creates a lesson owned by the caller inside an existing
// course.
func HandleCreateLesson(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	if !policy.Can(actor, policy.ActionCreate, nil) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Moderators cannot create lessons")
	}

	var req lessonRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.CourseID == nil || *req.CourseID == 0 {
		return validationError(c, "course_id", "course_id is required")
	}

	repos := repository.GetGlobalFactory()
	if _, err := repos.GetCourseRepository().GetByID(*req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationError(c, "course_id", "Course does not exist")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
	}

	lesson := &models.Lesson{OwnerID: &actor.ID, CourseID: *req.CourseID}
	applyLessonPatch(lesson, &req)

	if err := validateLessonContent(lesson); err != nil {
		return respondContentViolation(c, err)
	}
	if err := lesson.Validate(); err != nil {
		return validationError(c, "title", "Title is required")
	}

	if err := repos.GetLessonRepository().Create(lesson); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create lesson")
	}

	notifySubscribers(lesson.CourseID)

	return c.Status(fiber.StatusCreated).JSON(lessonResponse(lesson))
}

// HandleGetLesson returns a single visible lesson. Invisible lessons read
// as 404.
func HandleGetLesson(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid lesson id")
	}

	lesson, err := repository.GetGlobalFactory().GetLessonRepository().GetVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Lesson not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load lesson")
	}

	if err := counter.AddLessonView(lesson.ID); err != nil {
		log.Debugf("[Lessons] failed to count view for lesson %d: %v", lesson.ID, err)
	}

	return c.JSON(lessonResponse(lesson))
}

// HandleUpdateLesson applies a partial update. The owner is not re-stamped,
// so a moderator edit leaves ownership untouched.
func HandleUpdateLesson(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid lesson id")
	}

	repos := repository.GetGlobalFactory()
	repo := repos.GetLessonRepository()
	lesson, err := repo.GetVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Lesson not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load lesson")
	}
	if !policy.Can(actor, policy.ActionUpdate, lesson.OwnerID) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Only the owner or a moderator may update this lesson")
	}

	var req lessonRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.CourseID != nil && *req.CourseID != lesson.CourseID {
		if _, err := repos.GetCourseRepository().GetByID(*req.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError(c, "course_id", "Course does not exist")
			}
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
		}
		lesson.CourseID = *req.CourseID
	}
	applyLessonPatch(lesson, &req)

	if err := validateLessonContent(lesson); err != nil {
		return respondContentViolation(c, err)
	}
	if err := lesson.Validate(); err != nil {
		return validationError(c, "title", "Title is required")
	}

	if err := repo.Update(lesson); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update lesson")
	}

	notifySubscribers(lesson.CourseID)

	return c.JSON(lessonResponse(lesson))
}

// HandleDeleteLesson removes a lesson. Only the owner may delete, and
// moderators are explicitly excluded.
func HandleDeleteLesson(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid lesson id")
	}

	repo := repository.GetGlobalFactory().GetLessonRepository()
	lesson, err := repo.GetVisibleByID(actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Lesson not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load lesson")
	}
	if !policy.Can(actor, policy.ActionDelete, lesson.OwnerID) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Only the owner may delete this lesson")
	}

	if err := repo.Delete(lesson.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete lesson")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func applyLessonPatch(lesson *models.Lesson, req *lessonRequest) {
	if req.Title != nil {
		lesson.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.PreviewURL != nil {
		lesson.PreviewURL = strings.TrimSpace(*req.PreviewURL)
	}
	if req.VideoURL != nil {
		lesson.VideoURL = strings.TrimSpace(*req.VideoURL)
	}
}

func validateLessonContent(lesson *models.Lesson) error {
	if err := contentpolicy.ValidateVideoURL(lesson.VideoURL); err != nil {
		return fieldViolation("video_url", err)
	}
	if err := contentpolicy.ValidateNoExternalLinks(lesson.Description); err != nil {
		return fieldViolation("description", err)
	}
	return nil
}
