package shift

import "context"

// ShiftService resolves effective shift configuration and manages shift
// administration.
type ShiftService interface {
	// Resolve returns the effective shift configuration for a user:
	// active assignment first, then the default shift. Returns
	// ErrNoShiftConfigured when neither exists.
	Resolve(ctx context.Context, userID string) (Config, error)

	// CreateShift creates a new shift template (admin)
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	// ListShifts retrieves all shift templates
	ListShifts(ctx context.Context) ([]ShiftResponse, error)

	// AssignShift assigns a shift to a user, deactivating any prior
	// active assignment in the same transaction
	AssignShift(ctx context.Context, req AssignShiftRequest) (AssignmentResponse, error)

	// UnassignShift deactivates the user's active assignment, reverting
	// the user to the default shift
	UnassignShift(ctx context.Context, userID string) error
}
