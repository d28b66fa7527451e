package user

import "context"

// UserRepository reads the identity directory's user rows. This service never
// writes them.
type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (User, error)

	// ListActive retrieves every active, non-deleted user
	// Used by the absence sweep
	ListActive(ctx context.Context) ([]User, error)
}
