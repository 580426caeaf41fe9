package repository

import (
	"context"

	"github.com/taskpad/taskpad-api/internal/model"
)

type UserRepository interface {
	// CreateProfile inserts the mirrored profile record at registration.
	// Re-registering the same subject is a no-op that returns the existing
	// record, so the profile is created exactly once.
	CreateProfile(ctx context.Context, user model.User) (model.User, error)

	GetByCognitoSub(ctx context.Context, cognitoSub string) (model.User, error)
	GetByID(ctx context.Context, userID string) (model.User, error)

	// UpdateName and UpdateProfileImage each touch a single mirrored field;
	// the profile flow pairs them with the identity-provider write.
	UpdateName(ctx context.Context, userID, name string) (model.User, error)
	UpdateProfileImage(ctx context.Context, userID, url string) (model.User, error)
}
