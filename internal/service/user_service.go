package service

import (
	"context"
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService owns profile edits and the admin account operations.
type UserService struct {
	UserRepo *repository.UserRepository
	Media    MediaStore
}

func NewUserService(userRepo *repository.UserRepository, media MediaStore) *UserService {
	return &UserService{UserRepo: userRepo, Media: media}
}

type ProfileUpdateRequest struct {
	Name string `form:"name" binding:"omitempty,max=100"`
	Bio  string `form:"bio" binding:"omitempty,max=500"`
}

// UpdateProfile edits name/bio and swaps the avatar. The new avatar is
// uploaded before the record write; if that write fails the fresh upload is
// deleted again, and on success the replaced avatar object is removed
// (non-fatal, logged).
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req ProfileUpdateRequest, avatarPath string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	var avatar *MediaObject
	if avatarPath != "" {
		avatar, err = s.Media.Store(ctx, avatarPath, MediaImage)
		if err != nil {
			return nil, err
		}
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	replacedAvatarID := user.AvatarMediaID
	if avatar != nil {
		user.Avatar = avatar.URL
		user.AvatarMediaID = avatar.MediaID
	}

	if err := s.UserRepo.Update(user); err != nil {
		if avatar != nil {
			if delErr := s.Media.Delete(ctx, avatar.MediaID, MediaImage); delErr != nil {
				logger.Log.Warn("compensating avatar delete failed",
					zap.String("mediaId", avatar.MediaID), zap.Error(delErr))
			}
		}
		return nil, err
	}

	if avatar != nil && replacedAvatarID != "" {
		if err := s.Media.Delete(ctx, replacedAvatarID, MediaImage); err != nil {
			logger.Log.Warn("replaced avatar delete failed, media may be orphaned",
				zap.Uint("userId", userID),
				zap.String("mediaId", replacedAvatarID), zap.Error(err))
		}
	}
	return user, nil
}

func (s *UserService) ListByRole(role model.UserRole) ([]model.User, error) {
	return s.UserRepo.ListByRole(role)
}

// PromoteToInstructor grants a student the instructor role. Promoting a user
// who already holds instructor (or admin) is a no-op.
func (s *UserService) PromoteToInstructor(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if user.Role != model.Student {
		return user, nil
	}

	user.Role = model.Instructor
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user promoted to instructor", zap.Uint("userId", userID))
	return user, nil
}
