package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

type fakeGateway struct {
	resp *GatewayResponse
	err  error
	last GatewayRequest
}

func (f *fakeGateway) InitiatePayment(_ context.Context, req GatewayRequest) (*GatewayResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func phone(v string) *string { return &v }

func testRequest() Request {
	return Request{
		OrderID:     uuid.New(),
		OrderNumber: "SL2608290042",
		UserID:      uuid.New(),
		AmountCents: 26500,
		Currency:    enums.CurrencyXOF,
		PayerPhone:  phone("+221770000000"),
	}
}

func TestDispatchCashOnDelivery(t *testing.T) {
	t.Parallel()

	dispatcher, err := NewDispatcher(NewCashOnDeliveryStrategy())
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	result, err := dispatcher.Dispatch(context.Background(), enums.PaymentMethodCashOnDelivery, testRequest())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !result.Success || result.RequiresExternalAction {
		t.Fatalf("expected immediate success without external action, got %+v", result)
	}
}

func TestDispatchUnknownMethodFailsClosed(t *testing.T) {
	t.Parallel()

	dispatcher, err := NewDispatcher(NewCashOnDeliveryStrategy())
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	result, err := dispatcher.Dispatch(context.Background(), enums.PaymentMethodWave, testRequest())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if result.Success || result.RequiresExternalAction {
		t.Fatalf("expected closed result, got %+v", result)
	}
}

func TestMobileMoneyRequiresPhone(t *testing.T) {
	t.Parallel()

	strategy := NewWaveStrategy(&fakeGateway{}, nil)
	req := testRequest()
	req.PayerPhone = nil

	_, err := strategy.Pay(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestMobileMoneyReturnsExternalAction(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{resp: &GatewayResponse{
		TransactionID: "wv-123",
		PaymentURL:    "https://pay.wave.example/wv-123",
	}}
	strategy := NewWaveStrategy(gateway, nil)

	result, err := strategy.Pay(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !result.Success || !result.RequiresExternalAction {
		t.Fatalf("expected external action, got %+v", result)
	}
	if result.ExternalRef == nil || *result.ExternalRef != "wv-123" {
		t.Fatalf("expected external ref, got %+v", result.ExternalRef)
	}
	if result.PaymentURL == nil || *result.PaymentURL == "" {
		t.Fatalf("expected payment url")
	}
	if gateway.last.Reference != "SL2608290042" {
		t.Fatalf("expected order number as gateway reference, got %s", gateway.last.Reference)
	}
}

func TestMobileMoneyGatewayFailure(t *testing.T) {
	t.Parallel()

	strategy := NewOrangeMoneyStrategy(&fakeGateway{err: errors.New("insufficient funds")}, nil)

	_, err := strategy.Pay(context.Background(), testRequest())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePaymentFailed {
		t.Fatalf("expected PAYMENT_FAILED, got %v", err)
	}
}

func TestHTTPGatewayInitiatePayment(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req initiateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.AmountCents != 26500 || req.Currency != "XOF" {
			t.Errorf("unexpected payload %+v", req)
		}
		json.NewEncoder(w).Encode(initiateResponse{
			TransactionID: "om-789",
			PaymentURL:    "https://pay.om.example/om-789",
		})
	}))
	defer server.Close()

	gateway, err := NewHTTPGateway(server.URL, "test-key", 5*time.Second, nil)
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	resp, err := gateway.InitiatePayment(context.Background(), GatewayRequest{
		Reference:   "SL2608290042",
		AmountCents: 26500,
		Currency:    "XOF",
		PayerPhone:  "+221770000000",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if resp.TransactionID != "om-789" {
		t.Fatalf("expected transaction id om-789, got %s", resp.TransactionID)
	}
}

func TestHTTPGatewayRefusal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(initiateResponse{ErrorCode: "wallet_blocked"})
	}))
	defer server.Close()

	gateway, err := NewHTTPGateway(server.URL, "test-key", 5*time.Second, nil)
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	_, err = gateway.InitiatePayment(context.Background(), GatewayRequest{
		Reference:   "SL2608290001",
		AmountCents: 1000,
		Currency:    "XOF",
		PayerPhone:  "+221770000000",
	})
	if err == nil {
		t.Fatalf("expected refusal error")
	}
}
