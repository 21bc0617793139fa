package types

import "fmt"

// Urgency is the ordinal severity of a notification, independent of its category.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// AllUrgencies returns all urgencies from most to least severe
func AllUrgencies() []Urgency {
	return []Urgency{
		UrgencyCritical,
		UrgencyHigh,
		UrgencyMedium,
		UrgencyLow,
	}
}

// Rank returns the sort rank of the urgency. Lower ranks sort first:
// Critical=0, High=1, Medium=2, Low=3. Unknown values rank after Low.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 3
	default:
		return 4
	}
}

// IsValid checks if the urgency is valid
func (u Urgency) IsValid() bool {
	return u.Rank() < 4
}

// String returns the string representation of the urgency
func (u Urgency) String() string {
	return string(u)
}

// ParseUrgency parses a string into an Urgency
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(s)
	if !u.IsValid() {
		return "", fmt.Errorf("invalid urgency: %s", s)
	}
	return u, nil
}
