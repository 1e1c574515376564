package validate_interval

import "fmt"

func validateRequest(req *Request) error {
	if req.SpaceID <= 0 {
		return fmt.Errorf("%w: spaceID must be positive", ErrInvalidInput)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if !req.Start.Before(req.End) {
		return fmt.Errorf("%w: start=%s, end=%s", ErrInvalidRange, req.Start, req.End)
	}
	return nil
}
