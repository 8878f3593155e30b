package enums

import "fmt"

// EmailRequirement describes whether an offering collects an email address.
type EmailRequirement string

const (
	EmailRequired EmailRequirement = "REQUIRED"
	EmailOptional EmailRequirement = "OPTIONAL"
	EmailNone     EmailRequirement = "NO"
)

var validEmailRequirements = []EmailRequirement{
	EmailRequired,
	EmailOptional,
	EmailNone,
}

// String implements fmt.Stringer.
func (e EmailRequirement) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EmailRequirement.
func (e EmailRequirement) IsValid() bool {
	for _, candidate := range validEmailRequirements {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmailRequirement converts raw input into an EmailRequirement.
func ParseEmailRequirement(value string) (EmailRequirement, error) {
	for _, candidate := range validEmailRequirements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid email requirement %q", value)
}
