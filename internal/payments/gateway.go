package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shoplux/shoplux-backend/pkg/logger"
)

var (
	errGatewayURLRequired = errors.New("payment gateway base url is required")
	errGatewayKeyRequired = errors.New("payment gateway api key is required")
)

// HTTPGateway talks to a mobile-money provider's collection API. Wave and
// Orange Money expose the same initiation shape, so one client serves both
// with provider-specific base URLs and keys.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logg    *logger.Logger
}

// NewHTTPGateway validates the provider credentials and builds the client.
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration, logg *logger.Logger) (*HTTPGateway, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errGatewayURLRequired
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errGatewayKeyRequired
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logg:    logg,
	}, nil
}

type initiateRequest struct {
	Reference   string `json:"reference"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	PayerPhone  string `json:"payer_phone"`
}

type initiateResponse struct {
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

func (g *HTTPGateway) InitiatePayment(ctx context.Context, req GatewayRequest) (*GatewayResponse, error) {
	body, err := json.Marshal(initiateRequest{
		Reference:   req.Reference,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		PayerPhone:  req.PayerPhone,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	var decoded initiateResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode gateway response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if g.logg != nil {
			g.logg.Warn(ctx, fmt.Sprintf("gateway refused payment: status=%d code=%s", resp.StatusCode, decoded.ErrorCode))
		}
		return nil, fmt.Errorf("gateway refused payment: %s (status %d)", decoded.ErrorCode, resp.StatusCode)
	}
	if decoded.TransactionID == "" {
		return nil, errors.New("gateway response missing transaction id")
	}

	return &GatewayResponse{
		TransactionID: decoded.TransactionID,
		PaymentURL:    decoded.PaymentURL,
	}, nil
}
