package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentalAPI/internal/config"
	handlers "rentalAPI/internal/handler"
	"rentalAPI/internal/models"
	"rentalAPI/internal/service"
)

type testEnv struct {
	auth     *MockAuthService
	users    *MockUserService
	rooms    *MockRoomService
	pictures *MockPictureService
	tables   *MockTablesService
	handler  *handlers.Handlers
	router   http.Handler
}

// currentUserID is the account every request made through the test router is authenticated as.
const currentUserID = "user-123"

func newTestEnv() *testEnv {
	env := &testEnv{
		auth:     new(MockAuthService),
		users:    new(MockUserService),
		rooms:    new(MockRoomService),
		pictures: new(MockPictureService),
		tables:   new(MockTablesService),
	}

	env.handler = &handlers.Handlers{
		AuthService:    env.auth,
		UserService:    env.users,
		RoomService:    env.rooms,
		PictureService: env.pictures,
		TablesService:  env.tables,
		Cfg: &config.Config{
			ServerPort:    8080,
			MaxUploadSize: 1 << 20,
		},
		Validate: validator.New(),
	}

	// a gate that authenticates everyone unless the header says otherwise
	fakeAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				handlers.WriteError(w, "Требуется авторизация", "UNAUTHORIZED", http.StatusUnauthorized)
				return
			}
			user := &models.User{UserID: currentUserID, Email: "test@example.com"}
			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user)))
		})
	}

	env.router = env.handler.NewRouter(fakeAuth, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	}))
	return env
}

func (e *testEnv) do(method, target string, body io.Reader, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if authorized {
		req.Header.Set("Authorization", "Bearer token")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) doJSON(method, target string, payload interface{}, authorized bool) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return e.do(method, target, bytes.NewBuffer(body), authorized)
}

// assertJSONError checks the JSON response with an error
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response handlers.ErrorResponse
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.NotEmpty(t, response.Error)
	assert.Equal(t, expectedCode, response.Code)
}

// decodeJSON checks the successful JSON response
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int) map[string]interface{} {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	return response
}

func TestNewHandlers(t *testing.T) {
	svc := &service.Service{
		Auth:    new(MockAuthService),
		User:    new(MockUserService),
		Room:    new(MockRoomService),
		Picture: new(MockPictureService),
		Tables:  new(MockTablesService),
	}

	handler := handlers.NewHandlers(svc, &config.Config{})

	assert.NotNil(t, handler.AuthService)
	assert.NotNil(t, handler.UserService)
	assert.NotNil(t, handler.RoomService)
	assert.NotNil(t, handler.PictureService)
	assert.NotNil(t, handler.TablesService)
	assert.NotNil(t, handler.Cfg)
	assert.NotNil(t, handler.Validate)
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := newTestEnv()

	rr := env.do(http.MethodGet, "/does/not/exist", nil, false)

	response := decodeJSON(t, rr, http.StatusBadRequest)
	assert.Equal(t, "not found", response["message"])
}

func TestRouter_WrongMethod(t *testing.T) {
	env := newTestEnv()

	rr := env.do(http.MethodPost, "/health", nil, false)

	assertJSONError(t, rr, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestRouter_ProtectedRouteWithoutToken(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(http.MethodPost, "/room/publish", map[string]interface{}{"title": "x"}, false)

	assertJSONError(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
	env.rooms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_Metrics(t *testing.T) {
	env := newTestEnv()

	rr := env.do(http.MethodGet, "/metrics", nil, false)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "# metrics", rr.Body.String())
}

func TestHealthHandler(t *testing.T) {
	t.Run("Сервис доступен", func(t *testing.T) {
		env := newTestEnv()
		env.tables.On("Health", mock.Anything).
			Return(service.HealthStatus{Status: "ok", Database: "ok", Storage: "ok", Tables: 2})

		rr := env.do(http.MethodGet, "/health", nil, false)

		response := decodeJSON(t, rr, http.StatusOK)
		assert.Equal(t, "ok", response["status"])
		assert.Equal(t, float64(2), response["tables"])
	})

	t.Run("Хранилище недоступно", func(t *testing.T) {
		env := newTestEnv()
		env.tables.On("Health", mock.Anything).
			Return(service.HealthStatus{Status: "unavailable", Database: "ok", Storage: "unavailable"})

		rr := env.do(http.MethodGet, "/health", nil, false)

		response := decodeJSON(t, rr, http.StatusServiceUnavailable)
		assert.Equal(t, "unavailable", response["storage"])
	})
}

// go test ./internal/handler/test/... -v
