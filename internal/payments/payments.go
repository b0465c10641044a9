package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
)

// Request carries what a strategy needs to collect payment for an order.
type Request struct {
	OrderID     uuid.UUID
	OrderNumber string
	UserID      uuid.UUID
	AmountCents int64
	Currency    enums.Currency
	PayerPhone  *string
}

// Result reports how a payment attempt concluded. RequiresExternalAction
// means the buyer must finish the flow outside our system (a mobile-money
// approval); the order stays pending until the gateway confirms.
type Result struct {
	Success                bool
	RequiresExternalAction bool
	PaymentURL             *string
	ExternalRef            *string
}

// Strategy implements collection for one payment method.
type Strategy interface {
	Method() enums.PaymentMethod
	Pay(ctx context.Context, req Request) (*Result, error)
}

// Dispatcher routes payment requests to the strategy registered for the
// method. Unknown methods fail closed.
type Dispatcher struct {
	strategies map[enums.PaymentMethod]Strategy
}

// NewDispatcher registers the given strategies, rejecting duplicates.
func NewDispatcher(strategies ...Strategy) (*Dispatcher, error) {
	registry := make(map[enums.PaymentMethod]Strategy, len(strategies))
	for _, strategy := range strategies {
		if strategy == nil {
			return nil, fmt.Errorf("nil payment strategy")
		}
		method := strategy.Method()
		if !method.IsValid() {
			return nil, fmt.Errorf("strategy for unknown method %q", method)
		}
		if _, exists := registry[method]; exists {
			return nil, fmt.Errorf("duplicate strategy for method %q", method)
		}
		registry[method] = strategy
	}
	return &Dispatcher{strategies: registry}, nil
}

// Dispatch runs the strategy for the method.
func (d *Dispatcher) Dispatch(ctx context.Context, method enums.PaymentMethod, req Request) (*Result, error) {
	strategy, ok := d.strategies[method]
	if !ok {
		return &Result{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]any{"method": method})
	}
	return strategy.Pay(ctx, req)
}
