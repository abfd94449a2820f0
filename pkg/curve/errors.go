package curve

import "fmt"

// GridMismatchError reports an attempt to combine two curves whose angular
// grids are not element-wise identical.
type GridMismatchError struct {
	Op   string // "merge", "average" or "subtract"
	A, B string // labels of the offending curves
}

func (e *GridMismatchError) Error() string {
	return fmt.Sprintf("%s: angular grid mismatch between %q and %q", e.Op, e.A, e.B)
}

// InvalidTransmissionError reports an external transmission request without
// a positive supplied value.
type InvalidTransmissionError struct {
	Value float64
}

func (e *InvalidTransmissionError) Error() string {
	return fmt.Sprintf("transmission mode is external but the supplied value %f is not positive", e.Value)
}

// InvalidConfigurationError reports an unrecognized configuration value.
type InvalidConfigurationError struct {
	Field string
	Value any
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v", e.Field, e.Value)
}
