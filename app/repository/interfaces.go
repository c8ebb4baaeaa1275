package repository

import (
	"time"

	"coursebox/app/models"
	"coursebox/internal/pkg/policy"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	// DeactivateInactiveSince flips active users whose last login predates the
	// threshold to inactive and returns how many rows changed. Users who never
	// logged in are left alone.
	DeactivateInactiveSince(threshold time.Time) (int64, error)
}

// CourseRepository defines the interface for course-related database operations.
// Visible* methods scope queries to the actor's own courses unless the actor
// is a moderator.
type CourseRepository interface {
	Create(course *models.Course) error
	GetByID(id uint) (*models.Course, error)
	GetVisibleByID(actor policy.Actor, id uint) (*models.Course, error)
	ListVisible(actor policy.Actor, offset, limit int) ([]models.Course, int64, error)
	Update(course *models.Course) error
	Delete(id uint) error
}

// LessonRepository defines the interface for lesson-related database operations
type LessonRepository interface {
	Create(lesson *models.Lesson) error
	GetByID(id uint) (*models.Lesson, error)
	GetVisibleByID(actor policy.Actor, id uint) (*models.Lesson, error)
	ListVisible(actor policy.Actor, offset, limit int) ([]models.Lesson, int64, error)
	Update(lesson *models.Lesson) error
	Delete(id uint) error
}

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	// Toggle atomically flips the subscription state for (user, course) and
	// reports whether a subscription was added (true) or removed (false).
	Toggle(userID, courseID uint) (added bool, err error)
	IsSubscribed(userID, courseID uint) (bool, error)
	SubscriberEmails(courseID uint) ([]string, error)
	CountByCourse(courseID uint) (int64, error)
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	UserID       *uint
	PaidCourseID *uint
	PaidLessonID *uint
	Method       string
}

// PaymentRepository defines the interface for payment operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	Update(payment *models.Payment) error
	List(filter PaymentFilter, offset, limit int) ([]models.Payment, int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Course       CourseRepository
	Lesson       LessonRepository
	Subscription SubscriptionRepository
	Payment      PaymentRepository
}
