package repository

import (
	"gorm.io/gorm"

	"coursebox/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment in the database
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update updates an existing payment in the database
func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// List retrieves payments matching the filter, newest first.
func (r *paymentRepository) List(filter PaymentFilter, offset, limit int) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PaidCourseID != nil {
		query = query.Where("paid_course_id = ?", *filter.PaidCourseID)
	}
	if filter.PaidLessonID != nil {
		query = query.Where("paid_lesson_id = ?", *filter.PaidLessonID)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := query.Order("payment_date DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, count, err
}
