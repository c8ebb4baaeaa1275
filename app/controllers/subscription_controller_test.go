package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/middleware"
	"coursebox/internal/pkg/usercontext"
)

func newSubscriptionTestApp(userCtx *usercontext.UserContext) *fiber.App {
	app := fiber.New()
	if userCtx != nil {
		app.Use(loginAs(*userCtx))
	}
	app.Post("/subscriptions", middleware.RequireAuth, HandleToggleSubscription)
	return app
}

func postSubscription(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestToggleSubscriptionRequiresAuth(t *testing.T) {
	app := newSubscriptionTestApp(nil)

	resp := postSubscription(t, app, `{"course_id": 1}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestToggleSubscriptionRequiresCourseID(t *testing.T) {
	userCtx := usercontext.UserContext{UserID: 1, IsLoggedIn: true}
	app := newSubscriptionTestApp(&userCtx)

	resp := postSubscription(t, app, `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "course_id is required", body["message"])
}

func TestToggleSubscriptionUnknownCourse(t *testing.T) {
	useRepositories(&repository.Repositories{
		Course: &stubCourseRepo{getByID: func(id uint) (*models.Course, error) {
			return nil, gorm.ErrRecordNotFound
		}},
	})
	userCtx := usercontext.UserContext{UserID: 1, IsLoggedIn: true}
	app := newSubscriptionTestApp(&userCtx)

	resp := postSubscription(t, app, `{"course_id": 99}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleSubscriptionAddThenRemove(t *testing.T) {
	// The fake mirrors the toggle contract: first call subscribes, the
	// second call on the same pair unsubscribes, netting out to zero.
	subscribed := map[[2]uint]bool{}
	useRepositories(&repository.Repositories{
		Course: &stubCourseRepo{getByID: func(id uint) (*models.Course, error) {
			return &models.Course{ID: id, Title: "Go Basics"}, nil
		}},
		Subscription: &stubSubscriptionRepo{toggle: func(userID, courseID uint) (bool, error) {
			key := [2]uint{userID, courseID}
			subscribed[key] = !subscribed[key]
			return subscribed[key], nil
		}},
	})
	userCtx := usercontext.UserContext{UserID: 7, IsLoggedIn: true}
	app := newSubscriptionTestApp(&userCtx)

	resp := postSubscription(t, app, `{"course_id": 3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "subscription added", body["message"])
	assert.Equal(t, true, body["subscribed"])

	resp = postSubscription(t, app, `{"course_id": 3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "subscription removed", body["message"])
	assert.Equal(t, false, body["subscribed"])
	assert.False(t, subscribed[[2]uint{7, 3}])
}
