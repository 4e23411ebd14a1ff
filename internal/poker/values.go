// Package poker holds the fixed planning-poker card set and the derived
// round statistics.
package poker

// FibonacciValues are the numeric cards, in ascending order. CoffeeValue is
// the abstain card; it never participates in numeric aggregation.
var FibonacciValues = []string{"0", "1", "2", "3", "5", "8", "13", "21", "34"}

const CoffeeValue = "☕"

// AllValues returns every accepted vote value.
func AllValues() []string {
	return append(append([]string{}, FibonacciValues...), CoffeeValue)
}

// IsValidValue reports whether raw is an accepted vote value.
func IsValidValue(raw string) bool {
	if raw == CoffeeValue {
		return true
	}
	for _, v := range FibonacciValues {
		if raw == v {
			return true
		}
	}
	return false
}
