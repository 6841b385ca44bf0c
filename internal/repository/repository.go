package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"rentalAPI/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error)
	UpdateCredentials(ctx context.Context, userID, salt, hash, token string) (*models.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, roomID string) (*models.Room, error)
	GetByOwner(ctx context.Context, userID string) ([]*models.Room, error)
	Search(ctx context.Context, filter RoomFilter) ([]*models.Room, int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, roomID string, req UpdateRoomRequest) (*models.Room, error)
	Delete(ctx context.Context, roomID, ownerID string) error
}

type PictureRepository interface {
	AppendRoomPicture(ctx context.Context, roomID string, picture models.Picture) (*models.Room, error)
	RemoveRoomPicture(ctx context.Context, roomID, pictureID string) (*models.Room, error)
	SetUserPhoto(ctx context.Context, userID string, photo *models.Picture) (*models.User, error)
}

type TablesRepository interface {
	Ping(ctx context.Context) error
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	User    UserRepository
	Room    RoomRepository
	Picture PictureRepository
	Tables  TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:    NewUserRepository(db),
		Room:    NewRoomRepository(db),
		Picture: NewPictureRepository(db),
		Tables:  NewTablesRepository(db),
	}
}
