package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"coursebox/app/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

func jsonError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func validationError(c *fiber.Ctx, field string, message string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":   "validation_error",
		"field":   field,
		"message": message,
	})
}

// parsePagination reads page/page_size query parameters. Page numbering is
// one-based; page_size is clamped to maxPageSize.
func parsePagination(c *fiber.Ctx) (page int, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func paginatedResponse(items interface{}, total int64, page int, pageSize int) fiber.Map {
	return fiber.Map{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func userResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":            user.ID,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"phone":         user.Phone,
		"city":          user.City,
		"avatar_url":    user.AvatarURL,
		"role":          user.Role,
		"is_staff":      user.IsStaff,
		"status":        user.Status,
		"last_login_at": formatTimePtr(user.LastLoginAt),
		"created_at":    user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func courseResponse(course *models.Course) fiber.Map {
	return fiber.Map{
		"id":          course.ID,
		"owner_id":    course.OwnerID,
		"title":       course.Title,
		"description": course.Description,
		"preview_url": course.PreviewURL,
		"view_count":  course.ViewCount,
		"created_at":  course.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":  course.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func lessonResponse(lesson *models.Lesson) fiber.Map {
	return fiber.Map{
		"id":          lesson.ID,
		"owner_id":    lesson.OwnerID,
		"course_id":   lesson.CourseID,
		"title":       lesson.Title,
		"description": lesson.Description,
		"preview_url": lesson.PreviewURL,
		"video_url":   lesson.VideoURL,
		"view_count":  lesson.ViewCount,
		"created_at":  lesson.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":  lesson.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func paymentResponse(payment *models.Payment) fiber.Map {
	return fiber.Map{
		"id":             payment.ID,
		"user_id":        payment.UserID,
		"paid_course_id": payment.PaidCourseID,
		"paid_lesson_id": payment.PaidLessonID,
		"amount":         payment.Amount,
		"payment_method": payment.Method,
		"status":         payment.Status,
		"payment_url":    payment.PaymentURL,
		"payment_date":   payment.PaymentDate.UTC().Format(time.RFC3339),
	}
}
