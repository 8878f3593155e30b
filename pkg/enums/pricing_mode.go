package enums

import "fmt"

// PricingMode captures how an offering's amount is determined.
type PricingMode string

const (
	// PricingModeFixed means the amount is exactly the suggested price.
	PricingModeFixed PricingMode = "FIXED"
	// PricingModeSuggested defaults the amount but lets the buyer change it.
	PricingModeSuggested PricingMode = "SUGGESTED"
	// PricingModeVariable requires the buyer to choose an amount within bounds.
	PricingModeVariable PricingMode = "VARIABLE"
)

var validPricingModes = []PricingMode{
	PricingModeFixed,
	PricingModeSuggested,
	PricingModeVariable,
}

// String implements fmt.Stringer.
func (m PricingMode) String() string {
	return string(m)
}

// IsValid reports whether the mode is recognized.
func (m PricingMode) IsValid() bool {
	for _, candidate := range validPricingModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePricingMode converts a raw string into a PricingMode.
func ParsePricingMode(value string) (PricingMode, error) {
	for _, candidate := range validPricingModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing mode %q", value)
}
