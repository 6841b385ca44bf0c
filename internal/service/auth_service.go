package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/credentials"
	"rentalAPI/internal/logger"
	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
)

type AuthService interface {
	SignUp(ctx context.Context, req repository.CreateUserRequest) error
	SignIn(ctx context.Context, email, password string) (*models.SignInResult, error)
	ChangePassword(ctx context.Context, userID, previousPassword, newPassword string) (*models.Profile, string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{
		userRepo: userRepo,
	}
}

func (s *authService) SignUp(ctx context.Context, req repository.CreateUserRequest) error {
	if blank(req.Email, req.Password, req.Username, req.Name, req.Description) {
		return apperr.New(apperr.ErrInvalidInput, "все поля обязательны для заполнения")
	}

	// uniqueness is checked up front; the unique indexes catch races
	if err := ensureFree(ctx, s.userRepo.GetUserByEmail, req.Email, "",
		"пользователь с таким email уже существует"); err != nil {
		return err
	}
	if err := ensureFree(ctx, s.userRepo.GetUserByUsername, req.Username, "",
		"пользователь с таким именем уже существует"); err != nil {
		return err
	}

	creds, err := credentials.New(req.Password)
	if err != nil {
		return fmt.Errorf("ошибка генерации учётных данных: %w", err)
	}

	user := &models.User{
		Email:       req.Email,
		Username:    req.Username,
		Name:        req.Name,
		Description: req.Description,
		Rooms:       []string{},
		Token:       creds.Token,
		Hash:        creds.Hash,
		Salt:        creds.Salt,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.Log.Info("зарегистрирован пользователь", logger.WithUserID(user.UserID))
	return nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.SignInResult, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.New(apperr.ErrUnauthorized, "неверный email или пароль")
		}
		return nil, err
	}

	if !credentials.Verify(password, user.Salt, user.Hash) {
		return nil, apperr.New(apperr.ErrUnauthorized, "неверный email или пароль")
	}

	return &models.SignInResult{
		UserID:      user.UserID,
		Token:       user.Token,
		Username:    user.Username,
		Name:        user.Name,
		Description: user.Description,
		Email:       user.Email,
	}, nil
}

// ChangePassword rotates salt, hash and token. The previous token stops working.
func (s *authService) ChangePassword(ctx context.Context, userID, previousPassword, newPassword string) (*models.Profile, string, error) {
	if blank(previousPassword, newPassword) {
		return nil, "", apperr.New(apperr.ErrInvalidInput, "необходимо указать текущий и новый пароль")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if !credentials.Verify(previousPassword, user.Salt, user.Hash) {
		return nil, "", apperr.New(apperr.ErrUnauthorized, "неверный текущий пароль")
	}

	creds, err := credentials.Rotate(previousPassword, newPassword)
	if err != nil {
		if errors.Is(err, credentials.ErrPasswordUnchanged) {
			return nil, "", apperr.Wrap(apperr.ErrPasswordUnchanged, "новый пароль совпадает с текущим", err)
		}
		return nil, "", fmt.Errorf("ошибка генерации учётных данных: %w", err)
	}

	updated, err := s.userRepo.UpdateCredentials(ctx, userID, creds.Salt, creds.Hash, creds.Token)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("пароль изменён", logger.WithUserID(userID))
	return updated.Profile(), creds.Token, nil
}

// Authenticate resolves a bearer token to its account.
func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.New(apperr.ErrUnauthorized, "требуется авторизация")
	}

	user, err := s.userRepo.GetUserByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, apperr.ErrUnauthorized) {
			logger.Log.Error("ошибка проверки токена", zap.Error(err))
		}
		return nil, err
	}

	return user, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// ensureFree fails with Conflict when lookup finds an account other than selfID.
func ensureFree(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value, selfID, msg string) error {
	existing, err := lookup(ctx, value)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}

	if existing.UserID != selfID {
		return apperr.New(apperr.ErrConflict, msg)
	}
	return nil
}
