package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route; auth guards the account-bound ones and
// routeMiddlewares run after a route has matched.
func (h *Handlers) NewRouter(auth func(http.Handler) http.Handler, metricsHandler http.Handler, routeMiddlewares ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)
	r.Use(routeMiddlewares...)

	protected := func(f http.HandlerFunc) http.Handler {
		return auth(f)
	}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	// accounts
	r.HandleFunc("/users/sign_up", h.SignUp).Methods(http.MethodPost)
	r.HandleFunc("/users/sign_in", h.SignIn).Methods(http.MethodPost)
	r.Handle("/users/update", protected(h.UpdateProfile)).Methods(http.MethodPatch)
	r.Handle("/users/update_password", protected(h.ChangePassword)).Methods(http.MethodPatch)
	r.Handle("/users/{id}/upload_picture", protected(h.UploadUserPicture)).Methods(http.MethodPost)
	r.Handle("/users/{id}/delete_picture", protected(h.DeleteUserPicture)).Methods(http.MethodDelete)
	r.HandleFunc("/users/{id}/rooms", h.GetUserRooms).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)

	// rooms
	r.HandleFunc("/rooms", h.GetRooms).Methods(http.MethodGet)
	r.Handle("/room/publish", protected(h.PublishRoom)).Methods(http.MethodPost)
	r.Handle("/room/update/{id}", protected(h.UpdateRoom)).Methods(http.MethodPut)
	r.Handle("/room/delete/{id}", protected(h.DeleteRoom)).Methods(http.MethodDelete)
	r.Handle("/room/upload_picture/{id}", protected(h.UploadRoomPicture)).Methods(http.MethodPost)
	r.Handle("/room/delete_picture/{id}", protected(h.DeleteRoomPicture)).Methods(http.MethodPut)
	r.HandleFunc("/room/{id}", h.GetRoom).Methods(http.MethodGet)

	return r
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, MessageResponse{Message: "not found"}, http.StatusBadRequest)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
}
