package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/models"
)

const roomColumns = `room_id, user_id, title, description, price, location, pictures, created_at`

const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

type RoomRepositoryImpl struct {
	db *sqlx.DB
}

type CreateRoomRequest struct {
	Title       string
	Description string
	Price       float64
	Lat         float64
	Lng         float64
}

// RoomFilter narrows a listing search. Zero values mean "no constraint".
type RoomFilter struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Limit    int
	Offset   int
}

// UpdateRoomRequest holds the listing fields to change; nil leaves a field as is.
type UpdateRoomRequest struct {
	Title       *string
	Description *string
	Price       *float64
	Lat         *float64
	Lng         *float64
}

func (r UpdateRoomRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil && r.Lat == nil && r.Lng == nil
}

func NewRoomRepository(db *sqlx.DB) *RoomRepositoryImpl {
	return &RoomRepositoryImpl{db: db}
}

// Create inserts the room and appends its id to the owner's list in one transaction.
func (r *RoomRepositoryImpl) Create(ctx context.Context, room *models.Room) error {
	if room.RoomID == "" {
		room.RoomID = uuid.New().String()
	}
	if room.Pictures == nil {
		room.Pictures = models.Pictures{}
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rooms (room_id, user_id, title, description, price, location, pictures, created_at)
		VALUES (:room_id, :user_id, :title, :description, :price, :location, :pictures, :created_at)
	`

	if _, err := tx.NamedExecContext(ctx, query, room); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("ошибка при создании комнаты: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET rooms = array_append(rooms, $1) WHERE user_id = $2`,
		room.RoomID, room.UserID)
	if err != nil {
		return fmt.Errorf("ошибка при привязке комнаты к владельцу: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, fmt.Sprintf("пользователь с ID %s не найден", room.UserID))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func (r *RoomRepositoryImpl) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room

	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = $1`

	err := r.db.GetContext(ctx, &room, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("комната с ID %s не найдена", roomID))
		}
		return nil, fmt.Errorf("ошибка при получении комнаты: %w", err)
	}

	return &room, nil
}

// GetByOwner returns the owner's rooms in the order they were attached.
func (r *RoomRepositoryImpl) GetByOwner(ctx context.Context, userID string) ([]*models.Room, error) {
	query := `
		SELECT r.room_id, r.user_id, r.title, r.description, r.price, r.location, r.pictures, r.created_at
		FROM users u
		CROSS JOIN LATERAL unnest(u.rooms) WITH ORDINALITY AS ref(room_id, ord)
		JOIN rooms r ON r.room_id = ref.room_id
		WHERE u.user_id = $1
		ORDER BY ref.ord
	`

	rooms := []*models.Room{}
	err := r.db.SelectContext(ctx, &rooms, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комнат пользователя: %w", err)
	}

	return rooms, nil
}

// Search returns one page of matching rooms and the number of rooms matching the filter.
func (r *RoomRepositoryImpl) Search(ctx context.Context, filter RoomFilter) ([]*models.Room, int, error) {
	where, args := filter.where()

	var matched int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM rooms` + where)
	if err := r.db.GetContext(ctx, &matched, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчёте комнат: %w", err)
	}

	query := r.db.Rebind(`SELECT ` + roomColumns + ` FROM rooms` + where +
		` ORDER BY ` + filter.orderBy() + ` LIMIT ? OFFSET ?`)
	args = append(args, filter.Limit, filter.Offset)

	rooms := []*models.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при поиске комнат: %w", err)
	}

	return rooms, matched, nil
}

func (r *RoomRepositoryImpl) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rooms`); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте комнат: %w", err)
	}
	return count, nil
}

// Update applies only the supplied fields. Each coordinate is kept unless given.
func (r *RoomRepositoryImpl) Update(ctx context.Context, roomID string, req UpdateRoomRequest) (*models.Room, error) {
	var room models.Room

	query := `
		UPDATE rooms
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			location = ARRAY[COALESCE($4, location[1]), COALESCE($5, location[2])]
		WHERE room_id = $6
		RETURNING ` + roomColumns

	err := r.db.GetContext(ctx, &room, query, req.Title, req.Description, req.Price, req.Lat, req.Lng, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("комната с ID %s не найдена", roomID))
		}
		if mapped := mapPgError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("ошибка при обновлении комнаты: %w", err)
	}

	return &room, nil
}

// Delete removes the room and drops its id from the owner's list in one transaction.
func (r *RoomRepositoryImpl) Delete(ctx context.Context, roomID, ownerID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комнаты: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, fmt.Sprintf("комната с ID %s не найдена", roomID))
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET rooms = array_remove(rooms, $1) WHERE user_id = $2`,
		roomID, ownerID)
	if err != nil {
		return fmt.Errorf("ошибка при отвязке комнаты от владельца: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func (f RoomFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if f.Title != "" {
		clauses = append(clauses, `title ILIKE ?`)
		args = append(args, "%"+escapeLike(f.Title)+"%")
	}
	if f.PriceMin != nil {
		clauses = append(clauses, `price >= ?`)
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		clauses = append(clauses, `price <= ?`)
		args = append(args, *f.PriceMax)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (f RoomFilter) orderBy() string {
	switch f.Sort {
	case SortPriceAsc:
		return "price ASC, created_at, room_id"
	case SortPriceDesc:
		return "price DESC, created_at, room_id"
	default:
		return "created_at, room_id"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
