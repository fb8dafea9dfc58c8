package plate

import "errors"

var (
	// ErrDetectionUnavailable reports a detector that failed or returned
	// output that cannot be interpreted, such as an unknown class index.
	ErrDetectionUnavailable = errors.New("detection unavailable")

	// ErrDegenerateRegion reports a plate region with zero or negative extent.
	ErrDegenerateRegion = errors.New("degenerate region")
)
