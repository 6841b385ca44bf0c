package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/config"
	"rentalAPI/internal/logger"
	"rentalAPI/internal/metrics"
	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/storage"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type PictureService interface {
	AttachRoomPicture(ctx context.Context, roomID, requesterID string, file io.Reader) (*models.Room, error)
	DetachRoomPicture(ctx context.Context, roomID, requesterID, pictureID string) (models.Pictures, error)
	AttachUserPhoto(ctx context.Context, userID, requesterID string, file io.Reader) (*models.Profile, error)
	DetachUserPhoto(ctx context.Context, userID, requesterID string) (*models.Profile, error)
}

type pictureService struct {
	pictureRepo repository.PictureRepository
	roomRepo    repository.RoomRepository
	userRepo    repository.UserRepository
	storage     storage.Storage
	metrics     *metrics.Metrics
	cfg         *config.Config
}

func NewPictureService(pictureRepo repository.PictureRepository, roomRepo repository.RoomRepository, userRepo repository.UserRepository,
	storage storage.Storage, m *metrics.Metrics, cfg *config.Config) PictureService {
	return &pictureService{
		pictureRepo: pictureRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		storage:     storage,
		metrics:     m,
		cfg:         cfg,
	}
}

type image struct {
	data        []byte
	contentType string
	ext         string
}

func (p *pictureService) AttachRoomPicture(ctx context.Context, roomID, requesterID string, file io.Reader) (*models.Room, error) {
	room, err := p.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.UserID != requesterID {
		return nil, apperr.New(apperr.ErrForbidden, "нет прав на изменение этой комнаты")
	}
	if len(room.Pictures) >= models.MaxRoomPictures {
		return nil, apperr.New(apperr.ErrCapacityExceeded,
			fmt.Sprintf("у комнаты уже %d фотографий", models.MaxRoomPictures))
	}

	img, err := p.readImage(file)
	if err != nil {
		return nil, err
	}

	key := storage.NewObjectKey(storage.RoomFolder(p.cfg.Storage.Root, roomID), img.ext)
	uploaded, err := p.upload(ctx, key, img)
	if err != nil {
		return nil, err
	}

	updated, err := p.pictureRepo.AppendRoomPicture(ctx, roomID, models.Picture{
		URL:       uploaded.URL,
		PictureID: uploaded.Key,
	})
	if err != nil {
		p.discard(ctx, uploaded.Key, "attach_room_picture")
		return nil, err
	}

	logger.Log.Info("фотография добавлена", logger.WithRoomID(roomID), logger.WithObjectKey(uploaded.Key))
	return updated, nil
}

func (p *pictureService) DetachRoomPicture(ctx context.Context, roomID, requesterID, pictureID string) (models.Pictures, error) {
	pictureID = strings.TrimSpace(pictureID)
	if pictureID == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "не указан идентификатор фотографии")
	}

	room, err := p.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.UserID != requesterID {
		return nil, apperr.New(apperr.ErrForbidden, "нет прав на изменение этой комнаты")
	}

	target, ok := findPicture(room.Pictures, pictureID)
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "фотография не найдена")
	}

	done := p.metrics.TrackStorage("delete")
	err = p.storage.Delete(ctx, target.PictureID)
	done(err)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstreamFailure, "не удалось удалить фотографию из хранилища", err)
	}

	updated, err := p.pictureRepo.RemoveRoomPicture(ctx, roomID, target.PictureID)
	if err != nil {
		logger.Log.Error("фотография удалена из хранилища, но осталась в базе",
			logger.Reconcile(), logger.WithRoomID(roomID), logger.WithObjectKey(target.PictureID), zap.Error(err))
		p.metrics.RecordReconcile("detach_room_picture")
		return nil, err
	}

	return updated.Pictures, nil
}

// AttachUserPhoto overwrites the existing object when the account already has a photo.
func (p *pictureService) AttachUserPhoto(ctx context.Context, userID, requesterID string, file io.Reader) (*models.Profile, error) {
	user, err := p.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userID != requesterID {
		return nil, apperr.New(apperr.ErrForbidden, "нельзя изменить фото другого пользователя")
	}

	img, err := p.readImage(file)
	if err != nil {
		return nil, err
	}

	replacing := user.Photo != nil && user.Photo.PictureID != ""
	key := storage.NewObjectKey(storage.UserFolder(p.cfg.Storage.Root, userID), img.ext)
	if replacing {
		key = user.Photo.PictureID
	}

	uploaded, err := p.upload(ctx, key, img)
	if err != nil {
		return nil, err
	}

	updated, err := p.pictureRepo.SetUserPhoto(ctx, userID, &models.Picture{
		URL:       uploaded.URL,
		PictureID: uploaded.Key,
	})
	if err != nil {
		if replacing {
			// the previous reference still points at the overwritten key
			logger.Log.Error("фото перезаписано в хранилище, но не сохранено в базе",
				logger.Reconcile(), logger.WithUserID(userID), logger.WithObjectKey(key), zap.Error(err))
			p.metrics.RecordReconcile("attach_user_photo")
		} else {
			p.discard(ctx, uploaded.Key, "attach_user_photo")
		}
		return nil, err
	}

	return updated.Profile(), nil
}

func (p *pictureService) DetachUserPhoto(ctx context.Context, userID, requesterID string) (*models.Profile, error) {
	user, err := p.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userID != requesterID {
		return nil, apperr.New(apperr.ErrForbidden, "нельзя изменить фото другого пользователя")
	}
	if user.Photo == nil || user.Photo.PictureID == "" {
		return nil, apperr.New(apperr.ErrNotFound, "у пользователя нет фото")
	}

	done := p.metrics.TrackStorage("delete")
	err = p.storage.Delete(ctx, user.Photo.PictureID)
	done(err)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstreamFailure, "не удалось удалить фото из хранилища", err)
	}

	folder := storage.UserFolder(p.cfg.Storage.Root, userID)
	done = p.metrics.TrackStorage("delete_folder")
	err = p.storage.DeleteFolder(ctx, folder)
	done(err)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstreamFailure, "не удалось удалить папку пользователя из хранилища", err)
	}

	updated, err := p.pictureRepo.SetUserPhoto(ctx, userID, nil)
	if err != nil {
		logger.Log.Error("фото удалено из хранилища, но осталось в базе",
			logger.Reconcile(), logger.WithUserID(userID), logger.WithObjectKey(user.Photo.PictureID), zap.Error(err))
		p.metrics.RecordReconcile("detach_user_photo")
		return nil, err
	}

	return updated.Profile(), nil
}

// readImage reads at most MaxUploadSize bytes and checks the sniffed type.
func (p *pictureService) readImage(file io.Reader) (*image, error) {
	if file == nil {
		return nil, apperr.New(apperr.ErrInvalidInput, "файл не передан")
	}

	data, err := io.ReadAll(io.LimitReader(file, p.cfg.MaxUploadSize+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "не удалось прочитать файл", err)
	}
	if len(data) == 0 {
		return nil, apperr.New(apperr.ErrInvalidInput, "файл пустой")
	}
	if int64(len(data)) > p.cfg.MaxUploadSize {
		return nil, apperr.New(apperr.ErrInvalidInput, "файл слишком большой")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, apperr.New(apperr.ErrInvalidInput,
			fmt.Sprintf("неподдерживаемый тип файла: %s", mtype.String()))
	}

	return &image{data: data, contentType: mtype.String(), ext: mtype.Extension()}, nil
}

func (p *pictureService) upload(ctx context.Context, key string, img *image) (*storage.UploadResult, error) {
	done := p.metrics.TrackStorage("upload")
	uploaded, err := p.storage.Upload(ctx, key, bytes.NewReader(img.data), int64(len(img.data)), img.contentType)
	done(err)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstreamFailure, "не удалось загрузить файл в хранилище", err)
	}
	return uploaded, nil
}

// discard removes a fresh upload whose reference could not be persisted.
func (p *pictureService) discard(ctx context.Context, key, operation string) {
	done := p.metrics.TrackStorage("delete")
	err := p.storage.Delete(ctx, key)
	done(err)
	if err != nil {
		logger.Log.Error("не удалось удалить осиротевший объект",
			logger.Reconcile(), logger.WithObjectKey(key), zap.Error(err))
		p.metrics.RecordReconcile(operation)
	}
}

// findPicture matches the full object key or its trailing segment.
func findPicture(pictures models.Pictures, id string) (models.Picture, bool) {
	for _, pic := range pictures {
		if pic.PictureID == id || strings.HasSuffix(pic.PictureID, "/"+id) {
			return pic, true
		}
	}
	return models.Picture{}, false
}
