package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/storage"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) UpdateCredentials(ctx context.Context, userID, salt, hash, token string) (*models.User, error) {
	args := m.Called(ctx, userID, salt, hash, token)
	return userOrNil(args.Get(0)), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockRoomRepository) GetByOwner(ctx context.Context, userID string) ([]*models.Room, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) Search(ctx context.Context, filter repository.RoomFilter) ([]*models.Room, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Room), args.Int(1), args.Error(2)
}

func (m *MockRoomRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRoomRepository) Update(ctx context.Context, roomID string, req repository.UpdateRoomRequest) (*models.Room, error) {
	args := m.Called(ctx, roomID, req)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockRoomRepository) Delete(ctx context.Context, roomID, ownerID string) error {
	args := m.Called(ctx, roomID, ownerID)
	return args.Error(0)
}

type MockPictureRepository struct {
	mock.Mock
}

func (m *MockPictureRepository) AppendRoomPicture(ctx context.Context, roomID string, picture models.Picture) (*models.Room, error) {
	args := m.Called(ctx, roomID, picture)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPictureRepository) RemoveRoomPicture(ctx context.Context, roomID, pictureID string) (*models.Room, error) {
	args := m.Called(ctx, roomID, pictureID)
	return roomOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPictureRepository) SetUserPhoto(ctx context.Context, userID string, photo *models.Picture) (*models.User, error) {
	args := m.Called(ctx, userID, photo)
	return userOrNil(args.Get(0)), args.Error(1)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, file io.Reader, size int64, contentType string) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, file, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) DeleteFolder(ctx context.Context, folder string) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func userOrNil(v any) *models.User {
	if v == nil {
		return nil
	}
	return v.(*models.User)
}

func roomOrNil(v any) *models.Room {
	if v == nil {
		return nil
	}
	return v.(*models.Room)
}
