package errors

import "math"

// ValidatePositive rejects values that are not strictly greater than zero.
// NaN and infinities are rejected as well.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be > 0, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative rejects negative, NaN or infinite values.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be >= 0, got %v", field, v)
	}
	return nil
}

// ValidateFraction requires v to lie in (0, 1].
func ValidateFraction(field string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in (0, 1], got %v", field, v)
	}
	return nil
}

// ValidateCount requires an integer count of at least min.
func ValidateCount(field string, n, min int) error {
	if n < min {
		return New(ErrCodeInvalidConfig, "%s must be >= %d, got %d", field, min, n)
	}
	return nil
}
