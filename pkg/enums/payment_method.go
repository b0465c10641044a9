package enums

import "fmt"

// PaymentMethod identifies how the buyer settles an order.
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodWave           PaymentMethod = "wave"
	PaymentMethodOrangeMoney    PaymentMethod = "orange_money"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCashOnDelivery,
	PaymentMethodWave,
	PaymentMethodOrangeMoney,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresMobileNumber reports whether the method needs a payer mobile
// number before checkout can be submitted.
func (p PaymentMethod) RequiresMobileNumber() bool {
	return p == PaymentMethodWave || p == PaymentMethodOrangeMoney
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
