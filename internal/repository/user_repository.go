package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/models"
)

const userColumns = `user_id, email, username, name, description, photo, rooms, token, hash, salt, created_at`

type userRepository struct {
	db *sqlx.DB
}

type CreateUserRequest struct {
	Email       string
	Password    string
	Username    string
	Name        string
	Description string
}

// UpdateProfileRequest holds the profile fields to change; nil leaves a field as is.
type UpdateProfileRequest struct {
	Email       *string
	Username    *string
	Name        *string
	Description *string
}

func (r UpdateProfileRequest) Empty() bool {
	return r.Email == nil && r.Username == nil && r.Name == nil && r.Description == nil
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	// create user id
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.Rooms == nil {
		user.Rooms = []string{}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO users (user_id, email, username, name, description, photo, rooms, token, hash, salt, created_at)
		VALUES (:user_id, :email, :username, :name, :description, :photo, :rooms, :token, :hash, :salt, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID,
		fmt.Sprintf("пользователь с ID %s не найден", userID))
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email,
		fmt.Sprintf("пользователь с email %s не найден", email))
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username,
		fmt.Sprintf("пользователь %s не найден", username))
}

// GetUserByToken loads only the identity fields needed by protected handlers.
func (r *userRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User

	query := `SELECT user_id, email, username, name, description FROM users WHERE token = $1`

	err := r.db.GetContext(ctx, &user, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrUnauthorized, "недействительный токен")
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по токену: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	var user models.User

	query := `
		UPDATE users
		SET email = COALESCE($1, email),
			username = COALESCE($2, username),
			name = COALESCE($3, name),
			description = COALESCE($4, description)
		WHERE user_id = $5
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, &user, query, req.Email, req.Username, req.Name, req.Description, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("пользователь с ID %s не найден", userID))
		}
		if mapped := mapPgError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	return &user, nil
}

// UpdateCredentials stores salt, hash and token in a single statement.
func (r *userRepository) UpdateCredentials(ctx context.Context, userID, salt, hash, token string) (*models.User, error) {
	var user models.User

	query := `
		UPDATE users
		SET salt = $1, hash = $2, token = $3
		WHERE user_id = $4
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, &user, query, salt, hash, token, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, fmt.Sprintf("пользователь с ID %s не найден", userID))
		}
		if mapped := mapPgError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("ошибка при обновлении пароля: %w", err)
	}

	return &user, nil
}

func (r *userRepository) getOne(ctx context.Context, query, arg, notFound string) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, notFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}
