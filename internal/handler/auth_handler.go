package handlers

import (
	"encoding/json"
	"net/http"

	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
)

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	PreviousPassword string `json:"previousPassword" validate:"required"`
	NewPassword      string `json:"newPassword" validate:"required"`
}

type ChangePasswordResponse struct {
	Token string          `json:"token"`
	User  *models.Profile `json:"user"`
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, "Не все поля заполнены или email некорректен", http.StatusBadRequest)
		return
	}

	// creating a form to create user
	serviceReq := repository.CreateUserRequest{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.AuthService.SignUp(r.Context(), serviceReq); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Аккаунт успешно создан"}, http.StatusOK)
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, "Неверный email или пароль", http.StatusUnauthorized)
		return
	}

	result, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, result, http.StatusOK)
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, "Укажите текущий и новый пароль", http.StatusBadRequest)
		return
	}

	profile, token, err := h.AuthService.ChangePassword(r.Context(), user.UserID, req.PreviousPassword, req.NewPassword)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, ChangePasswordResponse{Token: token, User: profile}, http.StatusOK)
}
