// Package types provides shared value helpers used across multiple modules
// (Shared Kernel pattern).
package types

import "math"

// Round2 rounds a monetary amount to two decimal places, half away from zero.
// All wire payloads carry decimal-dollar amounts, so rounding is defined on
// dollars rather than on an integer cent representation.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
