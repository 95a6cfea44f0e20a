package enums

import "fmt"

// ValidationRequestType names what a verification request wants done.
type ValidationRequestType string

const (
	ValidationRequestTypeNewAddress        ValidationRequestType = "NewAddress"
	ValidationRequestTypeUpdateInformation ValidationRequestType = "UpdateInformation"
	ValidationRequestTypeDeleteRequest     ValidationRequestType = "DeleteRequest"
)

var validValidationRequestTypes = []ValidationRequestType{
	ValidationRequestTypeNewAddress,
	ValidationRequestTypeUpdateInformation,
	ValidationRequestTypeDeleteRequest,
}

// String implements fmt.Stringer.
func (t ValidationRequestType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ValidationRequestType.
func (t ValidationRequestType) IsValid() bool {
	for _, candidate := range validValidationRequestTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseValidationRequestType converts raw input into a ValidationRequestType.
func ParseValidationRequestType(value string) (ValidationRequestType, error) {
	for _, candidate := range validValidationRequestTypes {
		if equalFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid validation request type %q", value)
}

// ValidationRequestTypeOrDefault parses the input, falling back to NewAddress
// for unknown values. Same accept-and-default policy as priorities.
func ValidationRequestTypeOrDefault(value string) ValidationRequestType {
	if t, err := ParseValidationRequestType(value); err == nil {
		return t
	}
	return ValidationRequestTypeNewAddress
}
