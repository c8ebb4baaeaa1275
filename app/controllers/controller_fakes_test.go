package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/policy"
	"coursebox/internal/pkg/usercontext"
)

// loginAs injects a user context the way the auth middleware would after a
// successful token lookup.
func loginAs(userCtx usercontext.UserContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, userCtx)
		return c.Next()
	}
}

// useRepositories swaps the global factory for one backed by the given fakes.
func useRepositories(repos *repository.Repositories) {
	repository.InitializeFactoryWithRepositories(repos)
}

type stubUserRepo struct {
	repository.UserRepository
	getByEmail func(email string) (*models.User, error)
	create     func(user *models.User) error
}

func (s *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	return s.getByEmail(email)
}

func (s *stubUserRepo) Create(user *models.User) error {
	return s.create(user)
}

type stubCourseRepo struct {
	repository.CourseRepository
	getByID func(id uint) (*models.Course, error)
}

func (s *stubCourseRepo) GetByID(id uint) (*models.Course, error) {
	return s.getByID(id)
}

type stubLessonRepo struct {
	repository.LessonRepository
	create     func(lesson *models.Lesson) error
	getVisible func(actor policy.Actor, id uint) (*models.Lesson, error)
	update     func(lesson *models.Lesson) error
}

func (s *stubLessonRepo) Create(lesson *models.Lesson) error {
	return s.create(lesson)
}

func (s *stubLessonRepo) GetVisibleByID(actor policy.Actor, id uint) (*models.Lesson, error) {
	return s.getVisible(actor, id)
}

func (s *stubLessonRepo) Update(lesson *models.Lesson) error {
	return s.update(lesson)
}

type stubSubscriptionRepo struct {
	repository.SubscriptionRepository
	toggle func(userID, courseID uint) (bool, error)
}

func (s *stubSubscriptionRepo) Toggle(userID, courseID uint) (bool, error) {
	return s.toggle(userID, courseID)
}
