package config

import "fmt"

// ValidateIntRange validates that an integer is within a specified range.
//
// The value must be >= min and <= max (inclusive).
//
// Parameters:
//   - v: Value to validate
//   - min: Minimum allowed value (inclusive)
//   - max: Maximum allowed value (inclusive)
//
// Returns:
//   - error: nil if valid, error otherwise
//
// Example:
//
//	if err := ValidateIntRange(port, 1, 65535); err != nil {
//	    return fmt.Errorf("invalid port: %w", err)
//	}
func ValidateIntRange(v, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if v < min {
		return fmt.Errorf("value %d is below minimum %d", v, min)
	}

	if v > max {
		return fmt.Errorf("value %d exceeds maximum %d", v, max)
	}

	return nil
}
