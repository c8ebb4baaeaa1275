package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coursebox/app/models"
	"coursebox/app/repository"
)

type fakeClient struct {
	product *Product
	price   *Price
	session *CheckoutSession
	err     error

	productName   string
	priceAmount   int64
	priceCurrency string
}

func (f *fakeClient) CreateProduct(_ context.Context, name, _ string) (*Product, error) {
	f.productName = name
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeClient) CreatePrice(_ context.Context, _ string, amountCents int64, currency string) (*Price, error) {
	f.priceAmount = amountCents
	f.priceCurrency = currency
	if f.err != nil {
		return nil, f.err
	}
	return f.price, nil
}

func (f *fakeClient) CreateCheckoutSession(_ context.Context, _, _, _ string) (*CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeClient) RetrieveSession(_ context.Context, _ string) (*CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	created *models.Payment
	updated *models.Payment
}

func (f *fakePaymentRepo) Create(p *models.Payment) error {
	p.ID = 1
	f.created = p
	return nil
}

func (f *fakePaymentRepo) Update(p *models.Payment) error {
	f.updated = p
	return nil
}

type fakeCourseRepo struct {
	repository.CourseRepository
	course *models.Course
}

func (f *fakeCourseRepo) GetByID(_ uint) (*models.Course, error) {
	if f.course == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.course, nil
}

type fakeLessonRepo struct {
	repository.LessonRepository
	lesson *models.Lesson
}

func (f *fakeLessonRepo) GetByID(_ uint) (*models.Lesson, error) {
	if f.lesson == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.lesson, nil
}

func newTestService(client Client, payments *fakePaymentRepo, courses *fakeCourseRepo, lessons *fakeLessonRepo) *Service {
	return &Service{
		client:     client,
		payments:   payments,
		courses:    courses,
		lessons:    lessons,
		successURL: "https://coursebox.test/payments/success",
		cancelURL:  "https://coursebox.test/payments/cancelled",
		currency:   "usd",
	}
}

func uintPtr(v uint) *uint {
	return &v
}

func TestCreateCheckoutCoursePayment(t *testing.T) {
	client := &fakeClient{
		product: &Product{ID: "prod_1"},
		price:   &Price{ID: "price_1"},
		session: &CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1", PaymentStatus: SessionPaymentStatusUnpaid},
	}
	payments := &fakePaymentRepo{}
	courses := &fakeCourseRepo{course: &models.Course{ID: 7, Title: "Go Basics", Description: "intro"}}

	svc := newTestService(client, payments, courses, &fakeLessonRepo{})

	payment, err := svc.CreateCheckout(context.Background(), CreateCheckoutInput{
		UserID:       3,
		PaidCourseID: uintPtr(7),
		Amount:       49.99,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PAYMENT_STATUS_PENDING, payment.Status)
	assert.Equal(t, models.PAYMENT_METHOD_STRIPE, payment.Method)
	assert.Equal(t, "prod_1", payment.StripeProductID)
	assert.Equal(t, "price_1", payment.StripePriceID)
	assert.Equal(t, "cs_1", payment.StripeSessionID)
	assert.Equal(t, "https://checkout.test/cs_1", payment.PaymentURL)
	assert.Equal(t, "Go Basics", client.productName)
	assert.Equal(t, int64(4999), client.priceAmount)
	require.NotNil(t, payments.created)
}

func TestCreateCheckoutRequiresExactlyOneTarget(t *testing.T) {
	svc := newTestService(&fakeClient{}, &fakePaymentRepo{}, &fakeCourseRepo{}, &fakeLessonRepo{})

	_, err := svc.CreateCheckout(context.Background(), CreateCheckoutInput{UserID: 1, Amount: 10})
	assert.ErrorIs(t, err, models.ErrPaymentTarget)

	_, err = svc.CreateCheckout(context.Background(), CreateCheckoutInput{
		UserID:       1,
		PaidCourseID: uintPtr(1),
		PaidLessonID: uintPtr(2),
		Amount:       10,
	})
	assert.ErrorIs(t, err, models.ErrPaymentTarget)
}

func TestCreateCheckoutRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(&fakeClient{}, &fakePaymentRepo{}, &fakeCourseRepo{}, &fakeLessonRepo{})

	_, err := svc.CreateCheckout(context.Background(), CreateCheckoutInput{
		UserID:       1,
		PaidCourseID: uintPtr(1),
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateCheckoutMissingTarget(t *testing.T) {
	svc := newTestService(&fakeClient{}, &fakePaymentRepo{}, &fakeCourseRepo{}, &fakeLessonRepo{})

	_, err := svc.CreateCheckout(context.Background(), CreateCheckoutInput{
		UserID:       1,
		PaidCourseID: uintPtr(99),
		Amount:       10,
	})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestCreateCheckoutProcessorFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("status=500")}
	courses := &fakeCourseRepo{course: &models.Course{ID: 7, Title: "Go Basics"}}
	payments := &fakePaymentRepo{}

	svc := newTestService(client, payments, courses, &fakeLessonRepo{})

	_, err := svc.CreateCheckout(context.Background(), CreateCheckoutInput{
		UserID:       1,
		PaidCourseID: uintPtr(7),
		Amount:       10,
	})
	var extErr *ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Nil(t, payments.created)
}

func TestCreateCheckoutCashSkipsProcessor(t *testing.T) {
	client := &fakeClient{err: errors.New("processor must not be called")}
	lessons := &fakeLessonRepo{lesson: &models.Lesson{ID: 4, Title: "Pointers"}}
	payments := &fakePaymentRepo{}

	svc := newTestService(client, payments, &fakeCourseRepo{}, lessons)

	payment, err := svc.CreateCheckout(context.Background(), CreateCheckoutInput{
		UserID:       1,
		PaidLessonID: uintPtr(4),
		Amount:       15,
		Method:       models.PAYMENT_METHOD_CASH,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PAYMENT_STATUS_PENDING, payment.Status)
	assert.Empty(t, payment.StripeSessionID)
	require.NotNil(t, payments.created)
}

func TestRefreshStatusMapping(t *testing.T) {
	tests := []struct {
		name          string
		sessionStatus string
		want          string
	}{
		{"paid session marks payment paid", SessionPaymentStatusPaid, models.PAYMENT_STATUS_PAID},
		{"unpaid session keeps payment pending", SessionPaymentStatusUnpaid, models.PAYMENT_STATUS_PENDING},
		{"anything else cancels", "no_payment_required", models.PAYMENT_STATUS_CANCELLED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{session: &CheckoutSession{ID: "cs_1", PaymentStatus: tt.sessionStatus}}
			payments := &fakePaymentRepo{}
			svc := newTestService(client, payments, &fakeCourseRepo{}, &fakeLessonRepo{})

			payment := &models.Payment{ID: 1, Status: models.PAYMENT_STATUS_PENDING, StripeSessionID: "cs_1"}
			require.NoError(t, svc.RefreshStatus(context.Background(), payment))
			assert.Equal(t, tt.want, payment.Status)
		})
	}
}

func TestRefreshStatusSkipsSessionlessPayments(t *testing.T) {
	client := &fakeClient{err: errors.New("processor must not be called")}
	payments := &fakePaymentRepo{}
	svc := newTestService(client, payments, &fakeCourseRepo{}, &fakeLessonRepo{})

	payment := &models.Payment{ID: 1, Method: models.PAYMENT_METHOD_CASH, Status: models.PAYMENT_STATUS_PENDING}
	require.NoError(t, svc.RefreshStatus(context.Background(), payment))
	assert.Equal(t, models.PAYMENT_STATUS_PENDING, payment.Status)
	assert.Nil(t, payments.updated)
}

func TestRefreshStatusProcessorFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("status=502")}
	svc := newTestService(client, &fakePaymentRepo{}, &fakeCourseRepo{}, &fakeLessonRepo{})

	payment := &models.Payment{ID: 1, StripeSessionID: "cs_1", Status: models.PAYMENT_STATUS_PENDING}
	err := svc.RefreshStatus(context.Background(), payment)
	var extErr *ExternalServiceError
	require.ErrorAs(t, err, &extErr)
}

func TestAmountToCents(t *testing.T) {
	assert.Equal(t, int64(4999), AmountToCents(49.99))
	assert.Equal(t, int64(100), AmountToCents(1))
	assert.Equal(t, int64(0), AmountToCents(-5))
}
