package enums

import "fmt"

// PaymentMethod records how an order was (or will be) paid.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodAtDoor PaymentMethod = "AT_DOOR"
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCheck  PaymentMethod = "CHEQUE"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodAtDoor,
	PaymentMethodCash,
	PaymentMethodCheck,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the method is recognized.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts a raw string into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
