package attribution

import "fmt"

// InsufficientDataError indicates the input table holds no usable touchpoint
// rows. It is unrecoverable: no partial result is produced.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s", e.Reason)
}

// InvalidParameterError indicates a bad model or analysis parameter. It is
// raised before any journey work starts.
type InvalidParameterError struct {
	Parameter string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Parameter, e.Reason)
}
