package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/policy"
	"coursebox/internal/pkg/usercontext"
)

// captureNotifications redirects subscriber fan-out into a slice for the
// duration of a test.
func captureNotifications(t *testing.T) *[]uint {
	t.Helper()
	var notified []uint
	previous := enqueueNotification
	enqueueNotification = func(courseID uint) {
		notified = append(notified, courseID)
	}
	t.Cleanup(func() { enqueueNotification = previous })
	return &notified
}

func newLessonTestApp(userCtx usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(loginAs(userCtx))
	app.Post("/lessons", HandleCreateLesson)
	app.Patch("/lessons/:id", HandleUpdateLesson)
	return app
}

func lessonJSONRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateLessonNotifiesCourseSubscribers(t *testing.T) {
	notified := captureNotifications(t)
	useRepositories(&repository.Repositories{
		Course: &stubCourseRepo{getByID: func(id uint) (*models.Course, error) {
			return &models.Course{ID: id, Title: "Go Basics"}, nil
		}},
		Lesson: &stubLessonRepo{create: func(lesson *models.Lesson) error {
			lesson.ID = 5
			return nil
		}},
	})
	app := newLessonTestApp(usercontext.UserContext{UserID: 2, IsLoggedIn: true})

	resp := lessonJSONRequest(t, app, http.MethodPost, "/lessons",
		`{"course_id": 4, "title": "Slices", "video_url": "https://www.youtube.com/watch?v=abc"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, []uint{4}, *notified)
}

func TestUpdateLessonNotifiesCourseSubscribers(t *testing.T) {
	notified := captureNotifications(t)
	owner := uint(2)
	useRepositories(&repository.Repositories{
		Lesson: &stubLessonRepo{
			getVisible: func(actor policy.Actor, id uint) (*models.Lesson, error) {
				return &models.Lesson{ID: id, OwnerID: &owner, CourseID: 9, Title: "Maps"}, nil
			},
			update: func(lesson *models.Lesson) error { return nil },
		},
	})
	app := newLessonTestApp(usercontext.UserContext{UserID: owner, IsLoggedIn: true})

	resp := lessonJSONRequest(t, app, http.MethodPatch, "/lessons/5", `{"title": "Maps and sets"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []uint{9}, *notified)
}

func TestCreateLessonDoesNotNotifyOnValidationFailure(t *testing.T) {
	notified := captureNotifications(t)
	useRepositories(&repository.Repositories{
		Course: &stubCourseRepo{getByID: func(id uint) (*models.Course, error) {
			return &models.Course{ID: id}, nil
		}},
		Lesson: &stubLessonRepo{create: func(lesson *models.Lesson) error {
			t.Errorf("create must not be reached for an off-platform video link")
			return nil
		}},
	})
	app := newLessonTestApp(usercontext.UserContext{UserID: 2, IsLoggedIn: true})

	resp := lessonJSONRequest(t, app, http.MethodPost, "/lessons",
		`{"course_id": 4, "title": "Slices", "video_url": "https://vimeo.com/123"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Empty(t, *notified)
}
