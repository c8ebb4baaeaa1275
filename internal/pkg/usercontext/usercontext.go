package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"coursebox/internal/pkg/policy"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	IsLoggedIn  bool   `json:"is_logged_in"`
	IsModerator bool   `json:"is_moderator"`
	IsStaff     bool   `json:"is_staff"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// Actor converts the request context into a policy actor.
func (uc UserContext) Actor() policy.Actor {
	return policy.Actor{
		ID:            uc.UserID,
		Authenticated: uc.IsLoggedIn,
		Moderator:     uc.IsModerator,
		Staff:         uc.IsStaff,
	}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
