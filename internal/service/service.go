package service

import (
	"rentalAPI/internal/config"
	"rentalAPI/internal/metrics"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/storage"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Room    RoomService
	Picture PictureService
	Tables  TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, m *metrics.Metrics) *Service {
	return &Service{
		Auth:    NewAuthService(rep.User),
		User:    NewUserService(rep.User, rep.Room),
		Room:    NewRoomService(rep.Room, rep.User, storage, m, cfg),
		Picture: NewPictureService(rep.Picture, rep.Room, rep.User, storage, m, cfg),
		Tables:  NewTablesService(rep.Tables, storage),
	}
}
