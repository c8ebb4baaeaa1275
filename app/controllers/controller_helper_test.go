package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursebox/app/models"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit values", "page=3&page_size=25", 3, 25},
		{"page size is capped", "page_size=200", 1, 50},
		{"zero page falls back", "page=0", 1, 10},
		{"negative page size falls back", "page_size=-5", 1, 10},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var gotPage, gotSize int
			app.Get("/items", func(c *fiber.Ctx) error {
				gotPage, gotSize = parsePagination(c)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?"+tc.query, nil))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.wantPage, gotPage)
			assert.Equal(t, tc.wantPageSize, gotSize)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseIDParam(c)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendString(fmt.Sprintf("%d", id))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items/0", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2025, 3, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.Equal(t, now.UTC().Format(time.RFC3339), formatted)
}

func TestUserResponseHidesPassword(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.test", Password: "secret-hash"}
	resp := userResponse(user)

	for key, value := range resp {
		assert.NotEqual(t, "secret-hash", value, "field %s must not leak the password hash", key)
	}
	assert.Equal(t, "a@b.test", resp["email"])
}

func TestCourseResponseFields(t *testing.T) {
	owner := uint(5)
	course := &models.Course{ID: 2, OwnerID: &owner, Title: "Go Basics"}
	resp := courseResponse(course)

	assert.Equal(t, uint(2), resp["id"])
	assert.Equal(t, &owner, resp["owner_id"])
	assert.Equal(t, "Go Basics", resp["title"])
	assert.NotContains(t, resp, "lessons")
}
