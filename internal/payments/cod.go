package payments

import (
	"context"

	"github.com/shoplux/shoplux-backend/pkg/enums"
)

// CashOnDeliveryStrategy settles at the door: no gateway call, the order
// proceeds immediately and the courier collects on delivery.
type CashOnDeliveryStrategy struct{}

func NewCashOnDeliveryStrategy() *CashOnDeliveryStrategy {
	return &CashOnDeliveryStrategy{}
}

func (s *CashOnDeliveryStrategy) Method() enums.PaymentMethod {
	return enums.PaymentMethodCashOnDelivery
}

func (s *CashOnDeliveryStrategy) Pay(_ context.Context, _ Request) (*Result, error) {
	return &Result{Success: true}, nil
}
