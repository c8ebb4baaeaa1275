package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PAYMENT_METHOD_CASH     = "cash"
	PAYMENT_METHOD_TRANSFER = "transfer"
	PAYMENT_METHOD_STRIPE   = "stripe"

	PAYMENT_STATUS_PENDING   = "pending"
	PAYMENT_STATUS_PAID      = "paid"
	PAYMENT_STATUS_CANCELLED = "cancelled"
)

// ErrPaymentTarget is returned when a payment does not reference exactly one
// of a course or a lesson.
var ErrPaymentTarget = errors.New("payment must reference exactly one of a course or a lesson")

// Payment records a charge attempt against a course or a lesson. Rows are
// never deleted; status is refreshed from the external processor.
type Payment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PaidCourseID    *uint     `gorm:"index" json:"paid_course_id"`
	PaidCourse      *Course   `gorm:"foreignKey:PaidCourseID;constraint:OnDelete:SET NULL" json:"-"`
	PaidLessonID    *uint     `gorm:"index" json:"paid_lesson_id"`
	PaidLesson      *Lesson   `gorm:"foreignKey:PaidLessonID;constraint:OnDelete:SET NULL" json:"-"`
	Amount          float64   `gorm:"type:decimal(10,2)" json:"amount" validate:"required,gt=0"`
	Method          string    `gorm:"type:varchar(20);default:'cash'" json:"payment_method" validate:"oneof=cash transfer stripe"`
	Status          string    `gorm:"type:varchar(20);default:'pending'" json:"payment_status" validate:"oneof=pending paid cancelled"`
	StripeProductID string    `gorm:"type:varchar(255);default:null" json:"stripe_product_id,omitempty"`
	StripePriceID   string    `gorm:"type:varchar(255);default:null" json:"stripe_price_id,omitempty"`
	StripeSessionID string    `gorm:"type:varchar(255);default:null" json:"stripe_session_id,omitempty"`
	PaymentURL      string    `gorm:"type:varchar(255);default:null" json:"payment_url,omitempty"`
	PaymentDate     time.Time `gorm:"autoCreateTime" json:"payment_date"`
}

func (p *Payment) Validate() error {
	if err := p.ValidateTarget(); err != nil {
		return err
	}
	v := validator.New()

	return v.Struct(p)
}

// ValidateTarget enforces the mutually exclusive course/lesson reference.
func (p *Payment) ValidateTarget() error {
	if (p.PaidCourseID == nil) == (p.PaidLessonID == nil) {
		return ErrPaymentTarget
	}
	return nil
}
