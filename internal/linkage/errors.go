package linkage

import "fmt"

// MissingPointError reports a required named point absent from the input
// snapshot.
type MissingPointError struct {
	Name string
}

func (e *MissingPointError) Error() string {
	return fmt.Sprintf("missing required point: %s", e.Name)
}

// InvalidPointDataError reports a snapshot entry that is present but has the
// wrong shape (non-numeric coordinates, non-object point value).
type InvalidPointDataError struct {
	Key    string
	Reason string
}

func (e *InvalidPointDataError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid point data: %s", e.Reason)
	}
	return fmt.Sprintf("invalid point data for %q: %s", e.Key, e.Reason)
}

// CalculationError wraps an unexpected failure during force or surface
// computation. It is produced at the processing boundary; a request that
// hits one gets a structured error response and the process carries on.
type CalculationError struct {
	Stage string
	Err   error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s calculation error: %v", e.Stage, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}
