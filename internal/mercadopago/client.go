package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kamaracell/minha-loja-virtual/internal/modules/payments"
)

const (
	DefaultBaseURL = "https://api.mercadopago.com"

	// Kept well under Mercado Pago's webhook redelivery window so a slow
	// gateway call cannot overlap the next delivery of the same event.
	requestTimeout = 10 * time.Second
)

// APIError carries the gateway's HTTP status and raw response body so callers
// can surface upstream details verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status %d: %s", e.StatusCode, e.Body)
}

// Client speaks the Mercado Pago REST API with a bearer access token.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL points the client at a different API host (tests).
func NewClientWithBaseURL(accessToken, baseURL string) *Client {
	c := NewClient(accessToken)
	c.baseURL = baseURL
	return c
}

// CreatePreference creates a hosted checkout session.
// POST /checkout/preferences
func (c *Client) CreatePreference(ctx context.Context, req payments.PreferenceRequest) (payments.Preference, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return payments.Preference{}, fmt.Errorf("mercadopago: marshal preference: %w", err)
	}

	var pref payments.Preference
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", bytes.NewReader(body), &pref); err != nil {
		return payments.Preference{}, err
	}
	return pref, nil
}

// GetPayment fetches the authoritative status of one payment attempt.
// GET /v1/payments/{id}
func (c *Client) GetPayment(ctx context.Context, id string) (payments.Payment, error) {
	var p payments.Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(id), nil, &p); err != nil {
		return payments.Payment{}, err
	}
	return p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("mercadopago: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("mercadopago: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("mercadopago: decode response: %w", err)
		}
	}
	return nil
}
