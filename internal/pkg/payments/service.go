package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/env"
)

// ErrTargetNotFound is returned when the course or lesson a payment points at
// does not exist.
var ErrTargetNotFound = errors.New("payment target not found")

// ErrInvalidAmount is returned when a checkout is requested with a
// non-positive amount.
var ErrInvalidAmount = errors.New("payment amount must be positive")

// ExternalServiceError wraps a failure from the payment processor so callers
// can distinguish it from local validation problems.
type ExternalServiceError struct {
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("payment processor error: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Service drives the payment lifecycle: it creates checkout sessions against
// the processor, persists the resulting payment rows, and refreshes their
// status on demand.
type Service struct {
	client   Client
	payments repository.PaymentRepository
	courses  repository.CourseRepository
	lessons  repository.LessonRepository

	successURL string
	cancelURL  string
	currency   string
}

func NewService(client Client, repos *repository.Repositories) *Service {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	successURL := strings.TrimSpace(env.GetEnv("PAYMENT_SUCCESS_URL", ""))
	if successURL == "" && base != "" {
		successURL = base + "/payments/success"
	}
	cancelURL := strings.TrimSpace(env.GetEnv("PAYMENT_CANCEL_URL", ""))
	if cancelURL == "" && base != "" {
		cancelURL = base + "/payments/cancelled"
	}

	return &Service{
		client:     client,
		payments:   repos.Payment,
		courses:    repos.Course,
		lessons:    repos.Lesson,
		successURL: successURL,
		cancelURL:  cancelURL,
		currency:   strings.TrimSpace(env.GetEnv("PAYMENT_CURRENCY", "usd")),
	}
}

// CreateCheckoutInput carries everything needed to start a payment. Exactly
// one of PaidCourseID and PaidLessonID must be set.
type CreateCheckoutInput struct {
	UserID       uint
	PaidCourseID *uint
	PaidLessonID *uint
	Amount       float64
	Method       string
}

// CreateCheckout records a pending payment. For processor-backed payments it
// first creates the product, price and checkout session and stores their ids
// on the row; cash and transfer payments are persisted directly.
func (s *Service) CreateCheckout(ctx context.Context, input CreateCheckoutInput) (*models.Payment, error) {
	method := strings.TrimSpace(input.Method)
	if method == "" {
		method = models.PAYMENT_METHOD_STRIPE
	}

	payment := &models.Payment{
		UserID:       input.UserID,
		PaidCourseID: input.PaidCourseID,
		PaidLessonID: input.PaidLessonID,
		Amount:       input.Amount,
		Method:       method,
		Status:       models.PAYMENT_STATUS_PENDING,
	}
	if err := payment.ValidateTarget(); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	name, description, err := s.resolveTarget(input)
	if err != nil {
		return nil, err
	}

	if method == models.PAYMENT_METHOD_STRIPE {
		product, err := s.client.CreateProduct(ctx, name, description)
		if err != nil {
			return nil, &ExternalServiceError{Err: err}
		}
		price, err := s.client.CreatePrice(ctx, product.ID, AmountToCents(input.Amount), s.currency)
		if err != nil {
			return nil, &ExternalServiceError{Err: err}
		}
		session, err := s.client.CreateCheckoutSession(ctx, price.ID, s.successURL, s.cancelURL)
		if err != nil {
			return nil, &ExternalServiceError{Err: err}
		}

		payment.StripeProductID = product.ID
		payment.StripePriceID = price.ID
		payment.StripeSessionID = session.ID
		payment.PaymentURL = session.URL
	}

	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// RefreshStatus asks the processor for the current session state and maps it
// onto the payment row. Payments without a session (cash, transfer) are left
// untouched.
func (s *Service) RefreshStatus(ctx context.Context, payment *models.Payment) error {
	if strings.TrimSpace(payment.StripeSessionID) == "" {
		return nil
	}

	session, err := s.client.RetrieveSession(ctx, payment.StripeSessionID)
	if err != nil {
		return &ExternalServiceError{Err: err}
	}

	status := models.PAYMENT_STATUS_CANCELLED
	switch session.PaymentStatus {
	case SessionPaymentStatusPaid:
		status = models.PAYMENT_STATUS_PAID
	case SessionPaymentStatusUnpaid:
		status = models.PAYMENT_STATUS_PENDING
	}

	if payment.Status == status {
		return nil
	}
	payment.Status = status
	return s.payments.Update(payment)
}

func (s *Service) resolveTarget(input CreateCheckoutInput) (name string, description string, err error) {
	if input.PaidCourseID != nil {
		course, err := s.courses.GetByID(*input.PaidCourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", "", ErrTargetNotFound
			}
			return "", "", err
		}
		return course.Title, course.Description, nil
	}

	lesson, err := s.lessons.GetByID(*input.PaidLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrTargetNotFound
		}
		return "", "", err
	}
	return lesson.Title, lesson.Description, nil
}
