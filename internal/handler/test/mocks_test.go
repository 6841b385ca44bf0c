package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, req repository.CreateUserRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*models.SignInResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SignInResult), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, previousPassword, newPassword string) (*models.Profile, string, error) {
	args := m.Called(ctx, userID, previousPassword, newPassword)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Profile), args.String(1), args.Error(2)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.Profile, error) {
	args := m.Called(ctx, userID, req)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicProfile), args.Error(1)
}

func (m *MockUserService) GetUserRooms(ctx context.Context, userID string) ([]*models.Room, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Room), args.Error(1)
}

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) Create(ctx context.Context, ownerID string, req repository.CreateRoomRequest) (*models.Room, error) {
	args := m.Called(ctx, ownerID, req)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockRoomService) Get(ctx context.Context, roomID string) (*models.RoomWithOwner, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomWithOwner), args.Error(1)
}

func (m *MockRoomService) Search(ctx context.Context, req service.SearchRoomsRequest) (*models.RoomPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomPage), args.Error(1)
}

func (m *MockRoomService) Update(ctx context.Context, roomID, requesterID string, req repository.UpdateRoomRequest) (*models.Room, error) {
	args := m.Called(ctx, roomID, requesterID, req)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockRoomService) Delete(ctx context.Context, roomID, requesterID string) error {
	args := m.Called(ctx, roomID, requesterID)
	return args.Error(0)
}

type MockPictureService struct {
	mock.Mock
}

func (m *MockPictureService) AttachRoomPicture(ctx context.Context, roomID, requesterID string, file io.Reader) (*models.Room, error) {
	args := m.Called(ctx, roomID, requesterID, file)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPictureService) DetachRoomPicture(ctx context.Context, roomID, requesterID, pictureID string) (models.Pictures, error) {
	args := m.Called(ctx, roomID, requesterID, pictureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Pictures), args.Error(1)
}

func (m *MockPictureService) AttachUserPhoto(ctx context.Context, userID, requesterID string, file io.Reader) (*models.Profile, error) {
	args := m.Called(ctx, userID, requesterID, file)
	return profileOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPictureService) DetachUserPhoto(ctx context.Context, userID, requesterID string) (*models.Profile, error) {
	args := m.Called(ctx, userID, requesterID)
	return profileOrNil(args.Get(0)), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) Health(ctx context.Context) service.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(service.HealthStatus)
}

func profileOrNil(v any) *models.Profile {
	if v == nil {
		return nil
	}
	return v.(*models.Profile)
}

func roomOrNil(v any) *models.Room {
	if v == nil {
		return nil
	}
	return v.(*models.Room)
}
