package service

import (
	"context"
	"strings"

	"community-calendar/core/errors"
	"community-calendar/core/logger"
	"community-calendar/modules/profile/dto"
	"community-calendar/modules/profile/repository"

	"github.com/google/uuid"
)

const displayNameMaxLength = 100

type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, *errors.AppError)
}

type ProfileService struct {
	repo repository.ProfileRepositoryInterface
}

func NewProfileService(repo repository.ProfileRepositoryInterface) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("ProfileService:GetProfile", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load profile", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}

	count, err := s.repo.CountEventsByUser(ctx, userID)
	if err != nil {
		logger.Error("ProfileService:GetProfile:Count", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load profile", err)
	}

	return &dto.ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		EventCount:  count,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// UpdateProfile changes the display name and rewrites the creator name on the
// user's existing events so old entries do not show a stale name.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, *errors.AppError) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Display name is required", nil)
	}
	if len(displayName) > displayNameMaxLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Display name is too long", nil)
	}

	user, err := s.repo.UpdateDisplayName(ctx, userID, displayName)
	if err != nil {
		logger.Error("ProfileService:UpdateProfile", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update profile", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}

	if err := s.repo.RenameEventCreator(ctx, userID, displayName); err != nil {
		logger.Error("ProfileService:UpdateProfile:Rename", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event creator names", err)
	}

	return s.GetProfile(ctx, userID)
}
