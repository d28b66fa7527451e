package shift

import "context"

// ShiftRepository defines data access for shift templates.
type ShiftRepository interface {
	// Create creates a new shift
	Create(ctx context.Context, shift Shift) (Shift, error)

	// GetByID retrieves a shift by id
	GetByID(ctx context.Context, id string) (Shift, error)

	// GetDefault retrieves the active default shift
	GetDefault(ctx context.Context) (Shift, error)

	// List retrieves all shifts, active first
	List(ctx context.Context) ([]Shift, error)
}

// AssignmentRepository defines data access for user-shift assignments.
type AssignmentRepository interface {
	// Create creates a new assignment
	Create(ctx context.Context, assignment Assignment) (Assignment, error)

	// GetActiveByUser retrieves the user's active assignment, if any
	GetActiveByUser(ctx context.Context, userID string) (*Assignment, error)

	// DeactivateByUser deactivates any active assignment for the user
	// Returns the number of rows touched
	DeactivateByUser(ctx context.Context, userID string) (int64, error)
}
