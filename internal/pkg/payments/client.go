package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/internal/pkg/env"
)

const defaultPaymentAPIBaseURL = "https://api.stripe.com"

// Client polls the payment provider for payment intent state. The
// reconciliation worker is its only caller; webhooks are handled elsewhere
// and polling is the safety net for missed ones.
type Client struct {
	SecretKey string
	BaseURL   string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		SecretKey: strings.TrimSpace(env.GetEnv("PAYMENT_SECRET_KEY", "")),
		BaseURL:   strings.TrimRight(env.GetEnv("PAYMENT_API_BASE_URL", defaultPaymentAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Intent is the slice of a provider payment intent the reconciler needs.
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// GetIntent fetches the current state of a payment intent.
func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("PAYMENT_SECRET_KEY is not configured")
	}
	if strings.TrimSpace(intentID) == "" {
		return nil, errors.New("payment intent id is required")
	}

	url := fmt.Sprintf("%s/v1/payment_intents/%s", c.BaseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment intent lookup failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Intent
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("payment intent response missing id")
	}
	return &out, nil
}

// LocalStatus maps a provider intent status onto the order payment status.
// Unknown and in-flight provider statuses stay pending and are retried on
// the next reconciliation tick.
func LocalStatus(providerStatus string) string {
	switch providerStatus {
	case "succeeded":
		return models.PaymentStatusPaid
	case "canceled":
		return models.PaymentStatusCanceled
	case "requires_payment_method":
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}
