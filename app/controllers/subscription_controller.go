package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coursebox/app/repository"
	"coursebox/internal/pkg/usercontext"
)

type subscriptionRequest struct {
	CourseID uint `json:"course_id"`
}

// HandleToggleSubscription flips the caller's subscription on a course.
// Subscribing a second time removes the subscription.
func HandleToggleSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req subscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.CourseID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "course_id is required")
	}

	repos := repository.GetGlobalFactory()
	if _, err := repos.GetCourseRepository().GetByID(req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Course not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load course")
	}

	added, err := repos.GetSubscriptionRepository().Toggle(userCtx.UserID, req.CourseID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to toggle subscription")
	}

	message := "subscription removed"
	if added {
		message = "subscription added"
	}
	return c.JSON(fiber.Map{"message": message, "subscribed": added})
}
