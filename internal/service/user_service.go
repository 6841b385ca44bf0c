package service

import (
	"context"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
)

type UserService interface {
	UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.Profile, error)
	GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error)
	GetUserRooms(ctx context.Context, userID string) ([]*models.Room, error)
}

type userService struct {
	userRepo repository.UserRepository
	roomRepo repository.RoomRepository
}

func NewUserService(userRepo repository.UserRepository, roomRepo repository.RoomRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roomRepo: roomRepo,
	}
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.Profile, error) {
	if req.Empty() {
		return nil, apperr.New(apperr.ErrInvalidInput, "нет данных для обновления")
	}

	// email and username must not belong to another account
	if req.Email != nil {
		if err := ensureFree(ctx, s.userRepo.GetUserByEmail, *req.Email, userID,
			"пользователь с таким email уже существует"); err != nil {
			return nil, err
		}
	}
	if req.Username != nil {
		if err := ensureFree(ctx, s.userRepo.GetUserByUsername, *req.Username, userID,
			"пользователь с таким именем уже существует"); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return user.Profile(), nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user.PublicProfile(), nil
}

func (s *userService) GetUserRooms(ctx context.Context, userID string) ([]*models.Room, error) {
	// check user
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.roomRepo.GetByOwner(ctx, userID)
}
