package enums

import "fmt"

// OrderStatus tracks where an order sits in the checkout lifecycle.
type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "OPEN"
	OrderStatusCheckedOut OrderStatus = "CHECKED_OUT"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusOpen,
	OrderStatusCheckedOut,
	OrderStatusPaid,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanTransitionTo reports whether the status machine permits moving to next.
// The machine only moves forward: OPEN -> CHECKED_OUT -> PAID, with
// CANCELLED and REFUNDED reachable from CHECKED_OUT or PAID only.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusOpen:
		return next == OrderStatusCheckedOut
	case OrderStatusCheckedOut:
		return next == OrderStatusPaid || next == OrderStatusCancelled || next == OrderStatusRefunded
	case OrderStatusPaid:
		return next == OrderStatusCancelled || next == OrderStatusRefunded
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
