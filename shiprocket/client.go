package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const defaultBaseURL = "https://apiv2.shiprocket.in/v1/external"

// Shiprocket tokens are valid for 10 days; refresh a day early.
const tokenLifetime = 9 * 24 * time.Hour

// Credentials are the aggregator login, resolved from store settings on each
// refresh so rotation takes effect without a restart.
type Credentials struct {
	Email    string
	Password string
}

type CredentialsFunc func(ctx context.Context) (Credentials, error)

// Client talks to the Shiprocket aggregator. The bearer token is cached under
// a mutex so concurrent callers near expiry trigger exactly one login.
type Client struct {
	baseURL string
	httpc   *http.Client
	creds   CredentialsFunc

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func New(creds CredentialsFunc) *Client {
	return NewWithBaseURL(defaultBaseURL, &http.Client{Timeout: 10 * time.Second}, creds)
}

// NewWithBaseURL lets tests point the client at a mock server.
func NewWithBaseURL(baseURL string, httpc *http.Client, creds CredentialsFunc) *Client {
	return &Client{baseURL: baseURL, httpc: httpc, creds: creds}
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// getToken returns the cached bearer token, re-authenticating when expired.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiresAt) {
		return c.token, nil
	}

	creds, err := c.creds(ctx)
	if err != nil {
		return "", fmt.Errorf("shiprocket auth: resolve credentials: %w", err)
	}

	body, _ := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("shiprocket auth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("shiprocket auth: login call: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shiprocket auth: login failed with status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return "", fmt.Errorf("shiprocket auth: decode login response: %w", err)
	}
	if lr.Token == "" {
		return "", fmt.Errorf("shiprocket auth: empty token in login response")
	}

	lifetime := tokenLifetime
	if lr.ExpiresIn > 0 {
		lifetime = time.Duration(lr.ExpiresIn) * time.Second
	}

	c.token = lr.Token
	c.expiresAt = time.Now().Add(lifetime)
	return c.token, nil
}

// InvalidateToken drops the cached token; the next call re-authenticates.
func (c *Client) InvalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

// doJSON sends an authenticated request and returns the raw response body.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("shiprocket: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("shiprocket: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shiprocket: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("shiprocket: %s %s returned status %d", method, path, resp.StatusCode)
	}
	return raw, nil
}

// CancelShipment posts a cancellation for a carrier order id.
func (c *Client) CancelShipment(ctx context.Context, carrierOrderID, reason string) error {
	if carrierOrderID == "" {
		return fmt.Errorf("shiprocket cancel: order id is required")
	}

	id, err := strconv.ParseInt(carrierOrderID, 10, 64)
	if err != nil {
		return fmt.Errorf("shiprocket cancel: invalid order id %q: %w", carrierOrderID, err)
	}

	payload := map[string]any{"ids": []int64{id}}
	if reason != "" {
		payload["reason"] = reason
	}
	if _, err := c.doJSON(ctx, http.MethodPost, "/orders/cancel", payload); err != nil {
		return fmt.Errorf("cancel shipment %s: %w", carrierOrderID, err)
	}
	return nil
}

// TrackShipment fetches tracking status; the payload is returned verbatim for
// the storefront to render.
func (c *Client) TrackShipment(ctx context.Context, carrierOrderID string) (json.RawMessage, error) {
	if carrierOrderID == "" {
		return nil, fmt.Errorf("shiprocket track: order id is required")
	}

	raw, err := c.doJSON(ctx, http.MethodGet, "/courier/track?order_id="+url.QueryEscape(carrierOrderID), nil)
	if err != nil {
		return nil, fmt.Errorf("track shipment %s: %w", carrierOrderID, err)
	}
	return json.RawMessage(raw), nil
}

// CheckServiceability asks the aggregator for courier options between two
// pincodes.
func (c *Client) CheckServiceability(ctx context.Context, pickupPincode, deliveryPincode string, weight float64, cod bool) (json.RawMessage, error) {
	if pickupPincode == "" || deliveryPincode == "" {
		return nil, fmt.Errorf("shiprocket serviceability: both pincodes are required")
	}

	q := url.Values{}
	q.Set("pickup_postcode", pickupPincode)
	q.Set("delivery_postcode", deliveryPincode)
	q.Set("weight", strconv.FormatFloat(weight, 'f', -1, 64))
	if cod {
		q.Set("cod", "1")
	} else {
		q.Set("cod", "0")
	}

	raw, err := c.doJSON(ctx, http.MethodGet, "/courier/serviceability/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("check serviceability: %w", err)
	}
	return json.RawMessage(raw), nil
}
