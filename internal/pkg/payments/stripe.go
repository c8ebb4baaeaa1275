package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coursebox/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com"

// Session payment states as reported by the processor.
const (
	SessionPaymentStatusPaid   = "paid"
	SessionPaymentStatusUnpaid = "unpaid"
)

// Client is the boundary to the external payment processor. Controllers and
// the checkout service only ever talk to this interface so tests can swap in
// a fake.
type Client interface {
	CreateProduct(ctx context.Context, name string, description string) (*Product, error)
	CreatePrice(ctx context.Context, productID string, amountCents int64, currency string) (*Price, error)
	CreateCheckoutSession(ctx context.Context, priceID string, successURL string, cancelURL string) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Price struct {
	ID         string `json:"id"`
	ProductID  string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

type StripeClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *StripeClient) CreateProduct(ctx context.Context, name string, description string) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("product name is required")
	}

	form := url.Values{}
	form.Set("name", strings.TrimSpace(name))
	if d := strings.TrimSpace(description); d != "" {
		form.Set("description", d)
	}

	var out Product
	if err := c.postForm(ctx, "/v1/products", form, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("stripe product response missing id")
	}
	return &out, nil
}

func (c *StripeClient) CreatePrice(ctx context.Context, productID string, amountCents int64, currency string) (*Price, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, errors.New("product id is required")
	}
	if amountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if strings.TrimSpace(currency) == "" {
		currency = "usd"
	}

	form := url.Values{}
	form.Set("product", strings.TrimSpace(productID))
	form.Set("unit_amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", strings.ToLower(strings.TrimSpace(currency)))

	var out Price
	if err := c.postForm(ctx, "/v1/prices", form, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("stripe price response missing id")
	}
	return &out, nil
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, priceID string, successURL string, cancelURL string) (*CheckoutSession, error) {
	if strings.TrimSpace(priceID) == "" {
		return nil, errors.New("price id is required")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price]", strings.TrimSpace(priceID))
	form.Set("line_items[0][quantity]", "1")
	if u := strings.TrimSpace(successURL); u != "" {
		form.Set("success_url", u)
	}
	if u := strings.TrimSpace(cancelURL); u != "" {
		form.Set("cancel_url", u)
	}

	var out CheckoutSession
	if err := c.postForm(ctx, "/v1/checkout/sessions", form, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" || strings.TrimSpace(out.URL) == "" {
		return nil, errors.New("stripe checkout session response missing id or url")
	}
	return &out, nil
}

func (c *StripeClient) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, errors.New("session id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/v1/checkout/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var out CheckoutSession
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *StripeClient) do(req *http.Request, out interface{}) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("STRIPE_SECRET_KEY is not configured")
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stripe request failed: path=%s status=%d body=%s", req.URL.Path, resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// AmountToCents converts a decimal amount into the integer minor units the
// processor expects. Values are rounded half away from zero.
func AmountToCents(amount float64) int64 {
	if amount < 0 {
		return 0
	}
	return int64(amount*100 + 0.5)
}
