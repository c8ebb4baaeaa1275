package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/hcaptcha"
	"coursebox/internal/pkg/security"
	"coursebox/internal/pkg/utils"
)

var tokenManager *security.TokenManager

// SetTokenManager wires the token manager used for login responses. Must be
// called once during startup before routes are served.
func SetTokenManager(tm *security.TokenManager) {
	tokenManager = tm
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	AvatarURL string `json:"avatar_url"`
	Captcha   string `json:"captcha_token"`
}

// HandleRegister creates a new active account with the default role.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if hcaptcha.Enabled() {
		if ok, err := hcaptcha.Verify(req.Captcha); !ok || err != nil {
			return validationError(c, "captcha_token", "Captcha verification failed")
		}
	}

	user, err := models.CreateUser(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return validationError(c, "email", "Email and password are required and must be valid")
	}
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)
	user.City = strings.TrimSpace(req.City)
	user.AvatarURL = strings.TrimSpace(req.AvatarURL)
	if user.AvatarURL == "" {
		user.AvatarURL = utils.GetGravatarURL(user.Email, 0)
	}

	if err := user.Validate(); err != nil {
		return validationError(c, "email", "Email and password are required and must be valid")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(user.Email); err == nil {
		return validationError(c, "email", "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create user")
	}

	if err := repo.Create(user); err != nil {
		// A concurrent registration can win between the lookup above and the
		// insert; the unique index reports it here.
		if repository.IsDuplicateKeyError(err) {
			return validationError(c, "email", "Email is already registered")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials, stamps the login time, and issues a
// token pair.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
	}
	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Account is deactivated")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record login")
	}

	access, refresh, err := tokenManager.Generate(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue tokens")
	}

	return c.JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"user":          userResponse(user),
	})
}
