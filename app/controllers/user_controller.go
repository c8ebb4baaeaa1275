package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coursebox/app/repository"
	"coursebox/internal/pkg/policy"
	"coursebox/internal/pkg/usercontext"
)

// HandleListUsers returns all accounts, paginated. Reserved for staff via
// middleware.
func HandleListUsers(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	repo := repository.GetGlobalFactory().GetUserRepository()

	users, err := repo.List((page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load users")
	}

	items := make([]fiber.Map, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(paginatedResponse(items, total, page, pageSize))
}

// HandleGetUser returns a user profile. Only the user themselves or staff
// may read it.
func HandleGetUser(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid user id")
	}
	if !policy.CanAccessUser(actor, id) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You may only access your own profile")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	return c.JSON(userResponse(user))
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	City      *string `json:"city"`
	AvatarURL *string `json:"avatar_url"`
}

// HandleUpdateUser applies a partial profile update. Email is immutable.
func HandleUpdateUser(c *fiber.Ctx) error {
	actor := usercontext.GetUserContext(c).Actor()
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid user id")
	}
	if !policy.CanAccessUser(actor, id) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You may only update your own profile")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	if req.Email != nil && strings.TrimSpace(*req.Email) != user.Email {
		return validationError(c, "email", "Email cannot be changed")
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return validationError(c, "password", "Password must not be empty")
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.City != nil {
		user.City = strings.TrimSpace(*req.City)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := user.Validate(); err != nil {
		return validationError(c, "profile", "Profile fields failed validation")
	}
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update user")
	}

	return c.JSON(userResponse(user))
}
