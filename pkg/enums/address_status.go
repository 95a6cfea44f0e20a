package enums

import "fmt"

// AddressStatus tracks an address through the moderation workflow.
type AddressStatus string

const (
	AddressStatusPending  AddressStatus = "Pending"
	AddressStatusVerified AddressStatus = "Verified"
	AddressStatusRejected AddressStatus = "Rejected"
)

var validAddressStatuses = []AddressStatus{
	AddressStatusPending,
	AddressStatusVerified,
	AddressStatusRejected,
}

// String implements fmt.Stringer.
func (s AddressStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AddressStatus.
func (s AddressStatus) IsValid() bool {
	for _, candidate := range validAddressStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status transition is allowed.
func (s AddressStatus) IsTerminal() bool {
	return s == AddressStatusVerified || s == AddressStatusRejected
}

// ParseAddressStatus converts raw input into an AddressStatus.
func ParseAddressStatus(value string) (AddressStatus, error) {
	for _, candidate := range validAddressStatuses {
		if equalFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address status %q", value)
}
