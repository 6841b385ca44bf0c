package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/config"
	"rentalAPI/internal/logger"
	"rentalAPI/internal/metrics"
	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/storage"
)

type RoomService interface {
	Create(ctx context.Context, ownerID string, req repository.CreateRoomRequest) (*models.Room, error)
	Get(ctx context.Context, roomID string) (*models.RoomWithOwner, error)
	Search(ctx context.Context, req SearchRoomsRequest) (*models.RoomPage, error)
	Update(ctx context.Context, roomID, requesterID string, req repository.UpdateRoomRequest) (*models.Room, error)
	Delete(ctx context.Context, roomID, requesterID string) error
}

// SearchRoomsRequest is a listing query as received from the caller, before clamping.
type SearchRoomsRequest struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Page     int
	Limit    int
}

type roomService struct {
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
	storage  storage.Storage
	metrics  *metrics.Metrics
	cfg      *config.Config
}

func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository, storage storage.Storage, m *metrics.Metrics, cfg *config.Config) RoomService {
	return &roomService{
		roomRepo: roomRepo,
		userRepo: userRepo,
		storage:  storage,
		metrics:  m,
		cfg:      cfg,
	}
}

func (s *roomService) Create(ctx context.Context, ownerID string, req repository.CreateRoomRequest) (*models.Room, error) {
	if blank(req.Title, req.Description) {
		return nil, apperr.New(apperr.ErrInvalidInput, "название и описание обязательны")
	}
	if err := checkPrice(&req.Price); err != nil {
		return nil, err
	}
	if err := checkCoordinates(&req.Lat, &req.Lng); err != nil {
		return nil, err
	}

	room := &models.Room{
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    models.NewLocation(req.Lat, req.Lng),
		Pictures:    models.Pictures{},
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	logger.Log.Info("опубликована комната", logger.WithRoomID(room.RoomID), logger.WithUserID(ownerID))
	return room, nil
}

func (s *roomService) Get(ctx context.Context, roomID string) (*models.RoomWithOwner, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	result := &models.RoomWithOwner{Room: room, Owner: models.Owner{UserID: room.UserID}}

	owner, err := s.userRepo.GetUserByID(ctx, room.UserID)
	switch {
	case err == nil:
		result.Owner = owner.Owner()
	case errors.Is(err, apperr.ErrNotFound):
		logger.Log.Warn("владелец комнаты не найден", logger.WithRoomID(roomID), logger.WithUserID(room.UserID))
	default:
		return nil, err
	}

	return result, nil
}

func (s *roomService) Search(ctx context.Context, req SearchRoomsRequest) (*models.RoomPage, error) {
	page, limit := s.clampPage(req.Page, req.Limit)

	filter := repository.RoomFilter{
		Title:    strings.TrimSpace(req.Title),
		PriceMin: req.PriceMin,
		PriceMax: req.PriceMax,
		Sort:     req.Sort,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	rooms, matched, err := s.roomRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.roomRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return &models.RoomPage{
		Rooms:            rooms,
		Count:            len(rooms),
		MatchedCount:     matched,
		TotalAllListings: total,
		Page:             page,
		Limit:            limit,
	}, nil
}

func (s *roomService) Update(ctx context.Context, roomID, requesterID string, req repository.UpdateRoomRequest) (*models.Room, error) {
	if _, err := s.ownedRoom(ctx, roomID, requesterID); err != nil {
		return nil, err
	}

	if req.Empty() {
		return nil, apperr.New(apperr.ErrInvalidInput, "нет данных для обновления")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "название не может быть пустым")
	}
	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}
	if err := checkCoordinates(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	return s.roomRepo.Update(ctx, roomID, req)
}

// Delete purges the room's objects from the blob store before removing the record.
func (s *roomService) Delete(ctx context.Context, roomID, requesterID string) error {
	room, err := s.ownedRoom(ctx, roomID, requesterID)
	if err != nil {
		return err
	}

	for _, picture := range room.Pictures {
		done := s.metrics.TrackStorage("delete")
		err := s.storage.Delete(ctx, picture.PictureID)
		done(err)
		if err != nil {
			return apperr.Wrap(apperr.ErrUpstreamFailure, "не удалось удалить фотографию из хранилища", err)
		}
	}

	folder := storage.RoomFolder(s.cfg.Storage.Root, roomID)
	done := s.metrics.TrackStorage("delete_folder")
	err = s.storage.DeleteFolder(ctx, folder)
	done(err)
	if err != nil {
		return apperr.Wrap(apperr.ErrUpstreamFailure, "не удалось удалить папку комнаты из хранилища", err)
	}

	if err := s.roomRepo.Delete(ctx, roomID, room.UserID); err != nil {
		// blobs are already gone
		logger.Log.Error("комната удалена из хранилища, но не из базы",
			logger.Reconcile(), logger.WithRoomID(roomID), logger.WithObjectKey(folder), zap.Error(err))
		s.metrics.RecordReconcile("delete_room")
		return err
	}

	logger.Log.Info("комната удалена", logger.WithRoomID(roomID), logger.WithUserID(requesterID))
	return nil
}

func (s *roomService) ownedRoom(ctx context.Context, roomID, requesterID string) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.UserID != requesterID {
		return nil, apperr.New(apperr.ErrForbidden, "нет прав на изменение этой комнаты")
	}

	return room, nil
}

func (s *roomService) clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.Pagination.DefaultLimit
	}
	if limit > s.cfg.Pagination.MaxLimit {
		limit = s.cfg.Pagination.MaxLimit
	}
	// keeps (page-1)*limit within int
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return page, limit
}

func checkPrice(price *float64) error {
	if price != nil && *price < 0 {
		return apperr.New(apperr.ErrInvalidInput, "цена не может быть отрицательной")
	}
	return nil
}

func checkCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return apperr.New(apperr.ErrInvalidInput, "широта должна быть в диапазоне от -90 до 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return apperr.New(apperr.ErrInvalidInput, "долгота должна быть в диапазоне от -180 до 180")
	}
	return nil
}
