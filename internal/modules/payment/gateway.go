package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the slice of the payment provider's API this service needs:
// order creation, payment/refund fetch, refund creation. Amounts cross this
// boundary in minor units (paise).
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	CreateRefund(ctx context.Context, paymentID string, amountMinor int64, speed string, notes map[string]string) (*GatewayRefund, error)
	FetchRefund(ctx context.Context, paymentID, refundID string) (*GatewayRefund, error)
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type GatewayPayment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
	Method  string `json:"method"`
}

type GatewayRefund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Speed     string `json:"speed_processed"`
}

// Client talks to the gateway's REST API with basic auth (key id/secret).
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	body := map[string]any{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	var order GatewayOrder
	if err := c.do(ctx, http.MethodPost, "/orders", body, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	var p GatewayPayment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &p); err != nil {
		return nil, fmt.Errorf("fetch payment: %w", err)
	}
	return &p, nil
}

func (c *Client) CreateRefund(ctx context.Context, paymentID string, amountMinor int64, speed string, notes map[string]string) (*GatewayRefund, error) {
	body := map[string]any{
		"amount": amountMinor,
		"speed":  speed,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	var r GatewayRefund
	if err := c.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", body, &r); err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}
	return &r, nil
}

func (c *Client) FetchRefund(ctx context.Context, paymentID, refundID string) (*GatewayRefund, error) {
	var r GatewayRefund
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID+"/refunds/"+refundID, nil, &r); err != nil {
		return nil, fmt.Errorf("fetch refund: %w", err)
	}
	return &r, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("gateway returned %d: %s %s", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Description)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
