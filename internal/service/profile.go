package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/taskpad/taskpad-api/internal/cognito"
	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/repository"
	"github.com/taskpad/taskpad-api/internal/storage"
)

// ProfileService keeps the identity-provider profile and its document-store
// mirror in step. Both updates are paired best-effort writes: when one half
// fails the other is not rolled back, and the caller reports a single
// generic failure.
type ProfileService struct {
	cognitoClient cognito.Client
	userRepo      repository.UserRepository
	blobs         storage.BlobStore
	logger        *slog.Logger
}

func NewProfileService(cognitoClient cognito.Client, userRepo repository.UserRepository, blobs storage.BlobStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		cognitoClient: cognitoClient,
		userRepo:      userRepo,
		blobs:         blobs,
		logger:        logger,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

// UpdateName trims and applies a new display name. An empty result after
// trimming is a silent no-op: no backend call and no error.
func (s *ProfileService) UpdateName(ctx context.Context, userID, accessToken, newName string) error {
	name := strings.TrimSpace(newName)
	if name == "" {
		return nil
	}
	if s.cognitoClient == nil {
		return fmt.Errorf("%w: identity provider not configured", ErrProfileUpdate)
	}

	idpErr := s.cognitoClient.UpdateProfile(ctx, cognito.UpdateProfileInput{
		AccessToken: accessToken,
		Name:        &name,
	})

	var mirrorErr error
	if _, err := s.userRepo.UpdateName(ctx, userID, name); err != nil {
		mirrorErr = err
	}

	return s.pairedResult(ctx, "name", idpErr, mirrorErr)
}

// UpdatePhoto uploads the photo to the per-user path and writes the
// resulting URL to both stores. A missing file is a no-op. Re-uploading the
// same filename overwrites the previous photo; last write wins.
func (s *ProfileService) UpdatePhoto(ctx context.Context, userID, accessToken, filename, contentType string, file io.Reader) (string, error) {
	if file == nil || filename == "" {
		return "", nil
	}
	if s.blobs == nil {
		return "", fmt.Errorf("%w: photo storage not configured", ErrProfileUpdate)
	}
	if s.cognitoClient == nil {
		return "", fmt.Errorf("%w: identity provider not configured", ErrProfileUpdate)
	}

	key := fmt.Sprintf("profile_images/%s/%s", userID, filename)
	url, err := s.blobs.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProfileUpdate, err)
	}

	idpErr := s.cognitoClient.UpdateProfile(ctx, cognito.UpdateProfileInput{
		AccessToken: accessToken,
		PhotoURL:    &url,
	})

	var mirrorErr error
	if _, err := s.userRepo.UpdateProfileImage(ctx, userID, url); err != nil {
		mirrorErr = err
	}

	if err := s.pairedResult(ctx, "photo", idpErr, mirrorErr); err != nil {
		return "", err
	}
	return url, nil
}

// pairedResult folds the outcome of the two writes. Partial failure is
// logged with which half broke, then reported as one generic failure.
func (s *ProfileService) pairedResult(ctx context.Context, field string, idpErr, mirrorErr error) error {
	if idpErr == nil && mirrorErr == nil {
		return nil
	}

	s.logger.ErrorContext(ctx, "profile update failed",
		"field", field,
		"identity_error", idpErr,
		"mirror_error", mirrorErr,
	)
	return fmt.Errorf("%w: %s", ErrProfileUpdate, field)
}
