package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"

	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
)

type UpdateProfileRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	Username    *string `json:"username" validate:"omitempty,min=1"`
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

type UserRoomsResponse struct {
	Rooms []*models.Room `json:"rooms"`
}

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 1 << 20

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	profile, err := h.UserService.UpdateProfile(r.Context(), user.UserID, repository.UpdateProfileRequest{
		Email:       req.Email,
		Username:    req.Username,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.UserService.GetPublicProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) GetUserRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.UserService.GetUserRooms(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}

	writeSuccess(w, UserRoomsResponse{Rooms: rooms}, http.StatusOK)
}

func (h *Handlers) UploadUserPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	file, ok := h.formPicture(w, r)
	if !ok {
		return
	}
	defer file.Close()

	profile, err := h.PictureService.AttachUserPhoto(r.Context(), mux.Vars(r)["id"], user.UserID, file)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) DeleteUserPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.PictureService.DetachUserPhoto(r.Context(), mux.Vars(r)["id"], user.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, profile, http.StatusOK)
}

// formPicture extracts the "picture" part of a multipart upload.
func (h *Handlers) formPicture(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+multipartOverhead)

	// setting the size limit from the config
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, fmt.Sprintf("Файл слишком большой (макс. %d MB)",
				h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			writeError(w, "Ошибка при обработке файла", http.StatusBadRequest)
		}
		return nil, false
	}

	// getting the file
	file, _, err := r.FormFile("picture")
	if err != nil {
		writeError(w, "Не удалось получить файл", http.StatusBadRequest)
		return nil, false
	}

	return file, true
}
