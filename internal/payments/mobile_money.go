package payments

import (
	"context"
	"strings"

	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/logger"
)

// Gateway initiates a mobile-money collection and returns where to send the
// buyer to approve it.
type Gateway interface {
	InitiatePayment(ctx context.Context, req GatewayRequest) (*GatewayResponse, error)
}

// GatewayRequest is the provider-agnostic payment initiation payload.
type GatewayRequest struct {
	Reference   string
	AmountCents int64
	Currency    string
	PayerPhone  string
}

// GatewayResponse carries the provider's redirect URL and transaction id.
type GatewayResponse struct {
	TransactionID string
	PaymentURL    string
}

// MobileMoneyStrategy collects through an external wallet provider. The
// buyer approves on their phone, so the result always requires external
// action; settlement arrives later through the provider callback.
type MobileMoneyStrategy struct {
	method  enums.PaymentMethod
	gateway Gateway
	logg    *logger.Logger
}

func NewWaveStrategy(gateway Gateway, logg *logger.Logger) *MobileMoneyStrategy {
	return &MobileMoneyStrategy{method: enums.PaymentMethodWave, gateway: gateway, logg: logg}
}

func NewOrangeMoneyStrategy(gateway Gateway, logg *logger.Logger) *MobileMoneyStrategy {
	return &MobileMoneyStrategy{method: enums.PaymentMethodOrangeMoney, gateway: gateway, logg: logg}
}

func (s *MobileMoneyStrategy) Method() enums.PaymentMethod {
	return s.method
}

func (s *MobileMoneyStrategy) Pay(ctx context.Context, req Request) (*Result, error) {
	if req.PayerPhone == nil || strings.TrimSpace(*req.PayerPhone) == "" {
		return &Result{}, pkgerrors.New(pkgerrors.CodeValidation, "payer mobile number is required").
			WithDetails(map[string]any{"method": s.method})
	}

	resp, err := s.gateway.InitiatePayment(ctx, GatewayRequest{
		Reference:   req.OrderNumber,
		AmountCents: req.AmountCents,
		Currency:    string(req.Currency),
		PayerPhone:  strings.TrimSpace(*req.PayerPhone),
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "payment initiation failed", err)
		}
		return &Result{}, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "initiate payment")
	}

	result := &Result{
		Success:                true,
		RequiresExternalAction: true,
	}
	if resp.PaymentURL != "" {
		result.PaymentURL = &resp.PaymentURL
	}
	if resp.TransactionID != "" {
		result.ExternalRef = &resp.TransactionID
	}
	return result, nil
}
