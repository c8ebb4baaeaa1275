package repository

import (
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/internal/pkg/policy"
)

// courseRepository implements the CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository instance
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course in the database
func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

// GetByID retrieves a course by its ID regardless of visibility
func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetVisibleByID retrieves a course by ID within the actor's visibility.
// A course outside the actor's scope reads as record-not-found so callers
// cannot distinguish hidden resources from missing ones.
func (r *courseRepository) GetVisibleByID(actor policy.Actor, id uint) (*models.Course, error) {
	var course models.Course
	err := visibilityScope(r.db, actor).Preload("Lessons").First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListVisible retrieves a paginated list of courses visible to the actor
// together with the total count of visible rows.
func (r *courseRepository) ListVisible(actor policy.Actor, offset, limit int) ([]models.Course, int64, error) {
	var count int64
	if err := visibilityScope(r.db.Model(&models.Course{}), actor).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var courses []models.Course
	err := visibilityScope(r.db, actor).
		Preload("Lessons").
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&courses).Error
	return courses, count, err
}

// Update updates an existing course in the database
func (r *courseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

// Delete removes a course; lessons cascade at the store layer
func (r *courseRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, id).Error
	})
}

// visibilityScope pre-filters catalog queries to the actor's own rows unless
// the actor holds the moderator role.
func visibilityScope(db *gorm.DB, actor policy.Actor) *gorm.DB {
	if policy.CanViewAll(actor) {
		return db
	}
	return db.Where("owner_id = ?", actor.ID)
}
