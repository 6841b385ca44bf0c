package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/models"
)

type PictureRepositoryImpl struct {
	db *sqlx.DB
}

func NewPictureRepository(db *sqlx.DB) *PictureRepositoryImpl {
	return &PictureRepositoryImpl{db: db}
}

// AppendRoomPicture adds the picture only while the room holds fewer than
// models.MaxRoomPictures entries.
func (r *PictureRepositoryImpl) AppendRoomPicture(ctx context.Context, roomID string, picture models.Picture) (*models.Room, error) {
	var room models.Room

	query := `
		UPDATE rooms
		SET pictures = pictures || jsonb_build_array($1::jsonb)
		WHERE room_id = $2 AND jsonb_array_length(pictures) < $3
		RETURNING ` + roomColumns

	err := r.db.GetContext(ctx, &room, query, picture, roomID, models.MaxRoomPictures)
	if err == nil {
		return &room, nil
	}

	if mapped := mapPgError(err); mapped != err {
		return nil, mapped
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ошибка при добавлении фотографии: %w", err)
	}

	// no row updated: either the room is gone or it is full
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM rooms WHERE room_id = $1)`, roomID); err != nil {
		return nil, fmt.Errorf("ошибка при проверке комнаты: %w", err)
	}
	if !exists {
		return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("комната с ID %s не найдена", roomID))
	}

	return nil, apperr.New(apperr.ErrCapacityExceeded,
		fmt.Sprintf("у комнаты уже %d фотографий", models.MaxRoomPictures))
}

// RemoveRoomPicture drops the entry with the given object key, keeping the order of the rest.
// Only one of two concurrent removals of the same key succeeds.
func (r *PictureRepositoryImpl) RemoveRoomPicture(ctx context.Context, roomID, pictureID string) (*models.Room, error) {
	var room models.Room

	query := `
		UPDATE rooms
		SET pictures = COALESCE((
			SELECT jsonb_agg(p ORDER BY ord)
			FROM jsonb_array_elements(pictures) WITH ORDINALITY AS e(p, ord)
			WHERE p->>'pictureId' <> $1
		), '[]'::jsonb)
		WHERE room_id = $2 AND pictures @> jsonb_build_array(jsonb_build_object('pictureId', $1::text))
		RETURNING ` + roomColumns

	err := r.db.GetContext(ctx, &room, query, pictureID, roomID)
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ошибка при удалении фотографии: %w", err)
	}

	// no row updated: either the room is gone or the picture already is
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM rooms WHERE room_id = $1)`, roomID); err != nil {
		return nil, fmt.Errorf("ошибка при проверке комнаты: %w", err)
	}
	if !exists {
		return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("комната с ID %s не найдена", roomID))
	}

	return nil, apperr.New(apperr.ErrNotFound, "фотография не найдена")
}

// SetUserPhoto stores photo as the account picture; nil clears it.
func (r *PictureRepositoryImpl) SetUserPhoto(ctx context.Context, userID string, photo *models.Picture) (*models.User, error) {
	var user models.User

	query := `UPDATE users SET photo = $1 WHERE user_id = $2 RETURNING ` + userColumns

	err := r.db.GetContext(ctx, &user, query, photo, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("пользователь с ID %s не найден", userID))
		}
		return nil, fmt.Errorf("ошибка при сохранении фото пользователя: %w", err)
	}

	return &user, nil
}
