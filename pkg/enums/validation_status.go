package enums

import "fmt"

// ValidationStatus tracks a verification request through its lifecycle. The
// state machine is identical in shape to AddressStatus but runs independently.
type ValidationStatus string

const (
	ValidationStatusPending  ValidationStatus = "Pending"
	ValidationStatusVerified ValidationStatus = "Verified"
	ValidationStatusRejected ValidationStatus = "Rejected"
)

var validValidationStatuses = []ValidationStatus{
	ValidationStatusPending,
	ValidationStatusVerified,
	ValidationStatusRejected,
}

// String implements fmt.Stringer.
func (s ValidationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ValidationStatus.
func (s ValidationStatus) IsValid() bool {
	for _, candidate := range validValidationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status transition is allowed.
func (s ValidationStatus) IsTerminal() bool {
	return s == ValidationStatusVerified || s == ValidationStatusRejected
}

// ParseValidationStatus converts raw input into a ValidationStatus.
func ParseValidationStatus(value string) (ValidationStatus, error) {
	for _, candidate := range validValidationStatuses {
		if equalFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid validation status %q", value)
}
