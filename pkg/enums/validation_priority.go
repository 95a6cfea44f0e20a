package enums

import "fmt"

// ValidationPriority orders verification requests in admin queues.
type ValidationPriority string

const (
	ValidationPriorityLow    ValidationPriority = "Low"
	ValidationPriorityMedium ValidationPriority = "Medium"
	ValidationPriorityHigh   ValidationPriority = "High"
)

var validValidationPriorities = []ValidationPriority{
	ValidationPriorityLow,
	ValidationPriorityMedium,
	ValidationPriorityHigh,
}

// String implements fmt.Stringer.
func (p ValidationPriority) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ValidationPriority.
func (p ValidationPriority) IsValid() bool {
	for _, candidate := range validValidationPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseValidationPriority converts raw input into a ValidationPriority.
func ParseValidationPriority(value string) (ValidationPriority, error) {
	for _, candidate := range validValidationPriorities {
		if equalFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid validation priority %q", value)
}

// ValidationPriorityOrDefault parses the input, falling back to Medium when it
// does not name a known priority. Submission endpoints accept free-text
// priorities and deliberately do not fail on unknown values.
func ValidationPriorityOrDefault(value string) ValidationPriority {
	if p, err := ParseValidationPriority(value); err == nil {
		return p
	}
	return ValidationPriorityMedium
}
