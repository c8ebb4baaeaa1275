package repository

import (
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/internal/pkg/policy"
)

// lessonRepository implements the LessonRepository interface
type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository creates a new lesson repository instance
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

// Create creates a new lesson in the database
func (r *lessonRepository) Create(lesson *models.Lesson) error {
	return r.db.Create(lesson).Error
}

// GetByID retrieves a lesson by its ID regardless of visibility
func (r *lessonRepository) GetByID(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetVisibleByID retrieves a lesson by ID within the actor's visibility.
func (r *lessonRepository) GetVisibleByID(actor policy.Actor, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := visibilityScope(r.db, actor).First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListVisible retrieves a paginated list of lessons visible to the actor.
func (r *lessonRepository) ListVisible(actor policy.Actor, offset, limit int) ([]models.Lesson, int64, error) {
	var count int64
	if err := visibilityScope(r.db.Model(&models.Lesson{}), actor).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var lessons []models.Lesson
	err := visibilityScope(r.db, actor).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&lessons).Error
	return lessons, count, err
}

// Update updates an existing lesson in the database
func (r *lessonRepository) Update(lesson *models.Lesson) error {
	return r.db.Save(lesson).Error
}

// Delete removes a lesson by its ID
func (r *lessonRepository) Delete(id uint) error {
	return r.db.Delete(&models.Lesson{}, id).Error
}
