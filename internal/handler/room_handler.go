package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentalAPI/internal/models"
	"rentalAPI/internal/repository"
	"rentalAPI/internal/service"
)

type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

type PublishRoomRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Price       *float64         `json:"price" validate:"required"`
	Location    *LocationRequest `json:"location" validate:"required"`
}

type UpdateRoomRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Location    *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"location"`
}

type DeletePictureRequest struct {
	PictureID string `json:"pictureId" validate:"required"`
}

type DeletePictureResponse struct {
	Message  string          `json:"message"`
	Pictures models.Pictures `json:"pictures"`
}

func (h *Handlers) PublishRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req PublishRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, "Не все поля заполнены", http.StatusBadRequest)
		return
	}

	room, err := h.RoomService.Create(r.Context(), user.UserID, repository.CreateRoomRequest{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Lat:         *req.Location.Lat,
		Lng:         *req.Location.Lng,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, room, http.StatusOK)
}

func (h *Handlers) GetRooms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := service.SearchRoomsRequest{
		Title: query.Get("title"),
		Sort:  query.Get("sort"),
	}

	var err error
	if req.PriceMin, err = floatParam(query.Get("priceMin")); err != nil {
		writeError(w, "Неверное значение priceMin", http.StatusBadRequest)
		return
	}
	if req.PriceMax, err = floatParam(query.Get("priceMax")); err != nil {
		writeError(w, "Неверное значение priceMax", http.StatusBadRequest)
		return
	}
	if req.Page, err = intParam(query.Get("page")); err != nil {
		writeError(w, "Неверный номер страницы", http.StatusBadRequest)
		return
	}
	if req.Limit, err = intParam(query.Get("limit")); err != nil {
		writeError(w, "Неверное значение limit", http.StatusBadRequest)
		return
	}

	page, err := h.RoomService.Search(r.Context(), req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, page, http.StatusOK)
}

func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.RoomService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, room, http.StatusOK)
}

func (h *Handlers) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	serviceReq := repository.UpdateRoomRequest{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.Location != nil {
		serviceReq.Lat = req.Location.Lat
		serviceReq.Lng = req.Location.Lng
	}

	room, err := h.RoomService.Update(r.Context(), mux.Vars(r)["id"], user.UserID, serviceReq)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, room, http.StatusOK)
}

func (h *Handlers) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.RoomService.Delete(r.Context(), mux.Vars(r)["id"], user.UserID); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Комната удалена"}, http.StatusOK)
}

func (h *Handlers) UploadRoomPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	file, ok := h.formPicture(w, r)
	if !ok {
		return
	}
	defer file.Close()

	room, err := h.PictureService.AttachRoomPicture(r.Context(), mux.Vars(r)["id"], user.UserID, file)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, room, http.StatusOK)
}

func (h *Handlers) DeleteRoomPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req DeletePictureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, "Не указан pictureId", http.StatusBadRequest)
		return
	}

	pictures, err := h.PictureService.DetachRoomPicture(r.Context(), mux.Vars(r)["id"], user.UserID, req.PictureID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeSuccess(w, DeletePictureResponse{Message: "Фото удалено", Pictures: pictures}, http.StatusOK)
}

func floatParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
