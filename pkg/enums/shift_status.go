package enums

import "fmt"

// ShiftStatus tracks a cash-register shift between open and close.
type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "open"
	ShiftStatusClosed ShiftStatus = "closed"
)

var validShiftStatuses = []ShiftStatus{
	ShiftStatusOpen,
	ShiftStatusClosed,
}

// String implements fmt.Stringer.
func (s ShiftStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShiftStatus.
func (s ShiftStatus) IsValid() bool {
	for _, candidate := range validShiftStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShiftStatus converts raw input into a ShiftStatus.
func ParseShiftStatus(value string) (ShiftStatus, error) {
	for _, candidate := range validShiftStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shift status %q", value)
}
