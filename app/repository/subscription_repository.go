package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursebox/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Toggle flips the subscription state for (user, course) inside a single
// transaction. The row lock serializes concurrent toggles on the same pair;
// the unique index on (user_id, course_id) backstops insert races, which are
// absorbed as removals instead of surfacing a uniqueness violation.
func (r *subscriptionRepository) Toggle(userID, courseID uint) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&sub).Error
		switch {
		case err == nil:
			return tx.Delete(&sub).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			sub = models.Subscription{UserID: userID, CourseID: courseID}
			if err := tx.Create(&sub).Error; err != nil {
				if IsDuplicateKeyError(err) {
					// Lost the race to a concurrent toggle; treat as removal.
					return tx.Where("user_id = ? AND course_id = ?", userID, courseID).
						Delete(&models.Subscription{}).Error
				}
				return err
			}
			added = true
			return nil
		default:
			return err
		}
	})
	return added, err
}

// IsSubscribed reports whether the user currently subscribes to the course
func (r *subscriptionRepository) IsSubscribed(userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// SubscriberEmails resolves the non-empty email addresses of all current
// subscribers of a course.
func (r *subscriptionRepository) SubscriberEmails(courseID uint) ([]string, error) {
	var emails []string
	err := r.db.Model(&models.Subscription{}).
		Joins("JOIN users ON users.id = subscriptions.user_id").
		Where("subscriptions.course_id = ? AND users.email <> ''", courseID).
		Pluck("users.email", &emails).Error
	return emails, err
}

// CountByCourse returns the number of subscriptions for a course
func (r *subscriptionRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// IsDuplicateKeyError reports whether err stems from a unique index violation
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL 1062 without the GORM error translator enabled
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
