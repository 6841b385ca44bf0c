package test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalAPI/internal/apperr"
	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
)

func signUpBody() map[string]interface{} {
	return map[string]interface{}{
		"email":       "test@example.com",
		"password":    "password123",
		"username":    "host",
		"name":        "Anna",
		"description": "Сдаю квартиру",
	}
}

func TestSignUpHandler_Success(t *testing.T) {
	// Arrange
	env := newTestEnv()
	env.auth.On("SignUp", mock.Anything, repository.CreateUserRequest{
		Email:       "test@example.com",
		Password:    "password123",
		Username:    "host",
		Name:        "Anna",
		Description: "Сдаю квартиру",
	}).Return(nil)

	// Act
	rr := env.doJSON(http.MethodPost, "/users/sign_up", signUpBody(), false)

	// Assert
	response := decodeJSON(t, rr, http.StatusOK)
	assert.NotEmpty(t, response["message"])
	assert.NotContains(t, rr.Body.String(), "password123")
	env.auth.AssertExpectations(t)
}

func TestSignUpHandler_MissingField(t *testing.T) {
	fields := []string{"email", "password", "username", "name", "description"}

	for _, field := range fields {
		t.Run("Нет поля "+field, func(t *testing.T) {
			env := newTestEnv()
			body := signUpBody()
			delete(body, field)

			rr := env.doJSON(http.MethodPost, "/users/sign_up", body, false)

			assertJSONError(t, rr, http.StatusBadRequest, "INVALID_INPUT")
			env.auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
		})
	}
}

func TestSignUpHandler_InvalidEmail(t *testing.T) {
	env := newTestEnv()
	body := signUpBody()
	body["email"] = "not-an-email"

	rr := env.doJSON(http.MethodPost, "/users/sign_up", body, false)

	assertJSONError(t, rr, http.StatusBadRequest, "INVALID_INPUT")
}

func TestSignUpHandler_Conflict(t *testing.T) {
	env := newTestEnv()
	env.auth.On("SignUp", mock.Anything, mock.Anything).
		Return(apperr.New(apperr.ErrConflict, "пользователь с таким email уже существует"))

	rr := env.doJSON(http.MethodPost, "/users/sign_up", signUpBody(), false)

	assertJSONError(t, rr, http.StatusConflict, "CONFLICT")
}

func TestSignUpHandler_BadJSON(t *testing.T) {
	env := newTestEnv()

	rr := env.do(http.MethodPost, "/users/sign_up", bytes.NewBufferString("{invalid"), false)

	assertJSONError(t, rr, http.StatusBadRequest, "INVALID_INPUT")
}

func TestSignInHandler(t *testing.T) {
	t.Run("Успешный вход", func(t *testing.T) {
		env := newTestEnv()
		env.auth.On("SignIn", mock.Anything, "test@example.com", "password123").Return(&models.SignInResult{
			UserID:   currentUserID,
			Token:    "tok",
			Username: "host",
			Email:    "test@example.com",
		}, nil)

		rr := env.doJSON(http.MethodPost, "/users/sign_in", map[string]string{
			"email": "test@example.com", "password": "password123",
		}, false)

		response := decodeJSON(t, rr, http.StatusOK)
		assert.Equal(t, currentUserID, response["userId"])
		assert.Equal(t, "tok", response["token"])
		assert.NotContains(t, response, "hash")
		assert.NotContains(t, response, "salt")
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		env := newTestEnv()
		env.auth.On("SignIn", mock.Anything, "test@example.com", "wrong").
			Return(nil, apperr.New(apperr.ErrUnauthorized, "неверный email или пароль"))

		rr := env.doJSON(http.MethodPost, "/users/sign_in", map[string]string{
			"email": "test@example.com", "password": "wrong",
		}, false)

		assertJSONError(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("Пустой пароль", func(t *testing.T) {
		env := newTestEnv()

		rr := env.doJSON(http.MethodPost, "/users/sign_in", map[string]string{"email": "test@example.com"}, false)

		assertJSONError(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
		env.auth.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	t.Run("Новый токен в ответе", func(t *testing.T) {
		env := newTestEnv()
		env.auth.On("ChangePassword", mock.Anything, currentUserID, "old", "new").
			Return(&models.Profile{UserID: currentUserID, Rooms: []string{}}, "fresh-token", nil)

		rr := env.doJSON(http.MethodPatch, "/users/update_password", map[string]string{
			"previousPassword": "old", "newPassword": "new",
		}, true)

		response := decodeJSON(t, rr, http.StatusOK)
		assert.Equal(t, "fresh-token", response["token"])
		user := response["user"].(map[string]interface{})
		assert.Equal(t, currentUserID, user["userId"])
	})

	t.Run("Пароль не изменился", func(t *testing.T) {
		env := newTestEnv()
		env.auth.On("ChangePassword", mock.Anything, currentUserID, "same", "same").
			Return(nil, "", apperr.New(apperr.ErrPasswordUnchanged, "новый пароль совпадает с текущим"))

		rr := env.doJSON(http.MethodPatch, "/users/update_password", map[string]string{
			"previousPassword": "same", "newPassword": "same",
		}, true)

		assertJSONError(t, rr, http.StatusBadRequest, "PASSWORD_UNCHANGED")
	})

	t.Run("Без токена", func(t *testing.T) {
		env := newTestEnv()

		rr := env.doJSON(http.MethodPatch, "/users/update_password", map[string]string{
			"previousPassword": "old", "newPassword": "new",
		}, false)

		assertJSONError(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
	})
}
