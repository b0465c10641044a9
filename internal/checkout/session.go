package checkout

import (
	"strings"
	"time"

	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

// Checkout walks three steps; the current one gates what PlaceOrder needs.
const (
	StepAddress  = 1
	StepDelivery = 2
	StepReview   = 3
)

// Session is the server-side checkout state for one user, persisted in
// Redis between requests. It holds form data only; money totals always come
// from the cart so a stale session can never change a price.
type Session struct {
	Step                  int                  `json:"step"`
	Email                 string               `json:"email"`
	Phone                 string               `json:"phone"`
	ShippingAddress       *types.PostalAddress `json:"shipping_address,omitempty"`
	BillingSameAsShipping bool                 `json:"billing_same_as_shipping"`
	BillingAddress        *types.PostalAddress `json:"billing_address,omitempty"`
	SaveAddressAsDefault  bool                 `json:"save_address_as_default"`
	ShippingMethodCode    string               `json:"shipping_method_code,omitempty"`
	PaymentMethod         *enums.PaymentMethod `json:"payment_method,omitempty"`
	PayerPhone            *string              `json:"payer_phone,omitempty"`
	Notes                 *string              `json:"notes,omitempty"`
	TermsAccepted         bool                 `json:"terms_accepted"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// NewSession starts a checkout at the address step.
func NewSession() *Session {
	return &Session{Step: StepAddress, BillingSameAsShipping: true, UpdatedAt: time.Now()}
}

// validateAddressStep checks everything the address step collects.
func (s *Session) validateAddressStep() error {
	if strings.TrimSpace(s.Email) == "" || !strings.Contains(s.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid contact email is required")
	}
	if strings.TrimSpace(s.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a contact phone is required")
	}
	if s.ShippingAddress == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if err := s.ShippingAddress.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping address incomplete")
	}
	if !s.BillingSameAsShipping {
		if s.BillingAddress == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "billing address is required")
		}
		if err := s.BillingAddress.Validate(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "billing address incomplete")
		}
	}
	return nil
}

// validateDeliveryStep checks the shipping and payment choices.
func (s *Session) validateDeliveryStep() error {
	if strings.TrimSpace(s.ShippingMethodCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a shipping method must be selected")
	}
	if s.PaymentMethod == nil || !s.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "a payment method must be selected")
	}
	return nil
}

// validateForPlaceOrder re-runs the gate for the final submission.
func (s *Session) validateForPlaceOrder() error {
	if err := s.validateAddressStep(); err != nil {
		return err
	}
	if err := s.validateDeliveryStep(); err != nil {
		return err
	}
	if !s.TermsAccepted {
		return pkgerrors.New(pkgerrors.CodeValidation, "terms must be accepted")
	}
	if *s.PaymentMethod != enums.PaymentMethodCashOnDelivery {
		if s.PayerPhone == nil || strings.TrimSpace(*s.PayerPhone) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "payer mobile number is required for mobile money")
		}
	}
	return nil
}

// billingSnapshot resolves the billing address the order should carry.
func (s *Session) billingSnapshot() *types.PostalAddress {
	if s.BillingSameAsShipping {
		return nil
	}
	return s.BillingAddress
}
