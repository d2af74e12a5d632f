// Package razorpay is a thin client for the Razorpay Orders API. It wraps
// one HTTPS request per call and implements payments.Gateway.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tesseract-fest/event-registration/payments"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

var _ payments.Gateway = &Client{}

type Client struct {
	creds      payments.Credentials
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(creds payments.Credentials, opts ...Option) *Client {
	c := &Client{
		creds:   creds,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, amountMinorUnits int64, currency string, receipt string, notes map[string]string) (payments.Order, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return payments.Order{}, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return payments.Order{}, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "Failed to create order")
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (payments.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return payments.Order{}, fmt.Errorf("failed to build order request: %w", err)
	}

	return c.do(req, "Failed to fetch order")
}

func (c *Client) do(req *http.Request, fallbackMessage string) (payments.Order, error) {
	ctx := req.Context()

	keyID, err := c.creds.KeyID(ctx)
	if err != nil || keyID == "" {
		return payments.Order{}, payments.NewConfigurationError("Gateway key ID is not available", err)
	}
	keySecret, err := c.creds.KeySecret(ctx)
	if err != nil || keySecret == "" {
		return payments.Order{}, payments.NewConfigurationError("Gateway key secret is not available", err)
	}
	req.SetBasicAuth(keyID, keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return payments.Order{}, payments.NewUpstreamError("Gateway is unreachable", err)
	}
	defer resp.Body.Close()

	var order orderResponse
	err = json.NewDecoder(resp.Body).Decode(&order)
	if err != nil {
		return payments.Order{}, payments.NewUpstreamError("Gateway returned an unparseable response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || order.Error != nil {
		message := fallbackMessage
		if order.Error != nil && order.Error.Description != "" {
			message = order.Error.Description
		}
		return payments.Order{}, payments.NewUpstreamError(message, nil)
	}

	return payments.Order{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}
