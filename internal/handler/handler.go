package handlers

import (
	"github.com/go-playground/validator/v10"

	"rentalAPI/internal/config"
	"rentalAPI/internal/service"
)

type Handlers struct {
	AuthService    service.AuthService
	UserService    service.UserService
	RoomService    service.RoomService
	PictureService service.PictureService
	TablesService  service.TablesService
	Cfg            *config.Config
	Validate       *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:    service.Auth,
		UserService:    service.User,
		RoomService:    service.Room,
		PictureService: service.Picture,
		TablesService:  service.Tables,
		Cfg:            config,
		Validate:       validator.New(),
	}
}
