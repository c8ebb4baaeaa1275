package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
	"coursebox/internal/pkg/payments"
	"coursebox/internal/pkg/usercontext"
)

var paymentService *payments.Service

// SetPaymentService wires the payment service. Must be called once during
// startup before routes are served.
func SetPaymentService(s *payments.Service) {
	paymentService = s
}

// HandleListPayments returns the caller's payments, newest first. Staff see
// every payment and may filter by user.
func HandleListPayments(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	filter := repository.PaymentFilter{
		Method: c.Query("payment_method"),
	}
	if v := c.QueryInt("paid_course", 0); v > 0 {
		id := uint(v)
		filter.PaidCourseID = &id
	}
	if v := c.QueryInt("paid_lesson", 0); v > 0 {
		id := uint(v)
		filter.PaidLessonID = &id
	}
	if userCtx.IsStaff {
		if v := c.QueryInt("user", 0); v > 0 {
			id := uint(v)
			filter.UserID = &id
		}
	} else {
		filter.UserID = &userCtx.UserID
	}

	page, pageSize := parsePagination(c)
	items, total, err := repository.GetGlobalFactory().GetPaymentRepository().List(filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load payments")
	}

	out := make([]fiber.Map, 0, len(items))
	for i := range items {
		out = append(out, paymentResponse(&items[i]))
	}
	return c.JSON(paginatedResponse(out, total, page, pageSize))
}

type createPaymentRequest struct {
	PaidCourseID *uint   `json:"paid_course_id"`
	PaidLessonID *uint   `json:"paid_lesson_id"`
	Amount       float64 `json:"amount"`
	Method       string  `json:"payment_method"`
}

// HandleCreatePayment starts a checkout for a course or a lesson and returns
// the pending payment with its checkout URL.
func HandleCreatePayment(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	payment, err := paymentService.CreateCheckout(c.Context(), payments.CreateCheckoutInput{
		UserID:       userCtx.UserID,
		PaidCourseID: req.PaidCourseID,
		PaidLessonID: req.PaidLessonID,
		Amount:       req.Amount,
		Method:       req.Method,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPaymentTarget):
			return validationError(c, "paid_course_id", "Exactly one of paid_course_id and paid_lesson_id must be set")
		case errors.Is(err, payments.ErrInvalidAmount):
			return validationError(c, "amount", "Amount must be positive")
		case errors.Is(err, payments.ErrTargetNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Payment target not found")
		default:
			var extErr *payments.ExternalServiceError
			if errors.As(err, &extErr) {
				return jsonError(c, fiber.StatusBadGateway, "external_service_error", "Payment processor request failed")
			}
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create payment")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(paymentResponse(payment))
}

// HandlePaymentStatus refreshes a payment against the processor and returns
// the current status. Payments of other users read as 404.
func HandlePaymentStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid payment id")
	}

	payment, err := repository.GetGlobalFactory().GetPaymentRepository().GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Payment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load payment")
	}
	if payment.UserID != userCtx.UserID && !userCtx.IsStaff {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Payment not found")
	}

	if err := paymentService.RefreshStatus(c.Context(), payment); err != nil {
		var extErr *payments.ExternalServiceError
		if errors.As(err, &extErr) {
			return jsonError(c, fiber.StatusBadGateway, "external_service_error", "Payment processor request failed")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to refresh payment")
	}

	return c.JSON(paymentResponse(payment))
}
