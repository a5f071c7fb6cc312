package application

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*gin.Engine, *MockStore, *MockDeleter) {
	gin.SetMode(gin.TestMode)
	store := new(MockStore)
	deleter := new(MockDeleter)
	svc := NewService(store, deleter, zerolog.Nop())
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(svc))
	return r, store, deleter
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandler_Create_Success(t *testing.T) {
	r, store, _ := newTestRouter()

	store.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/applications", createReq())
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var app Application
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, "a@b.com", app.Email)
}

func TestHandler_Create_ValidationError(t *testing.T) {
	r, store, _ := newTestRouter()

	req := createReq()
	req.Email = "not-an-email"

	w := doJSON(t, r, http.MethodPost, "/api/v1/applications", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Message, "Validation failed: ")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_Create_DuplicateEmail(t *testing.T) {
	r, store, _ := newTestRouter()

	store.On("GetByEmail", mock.Anything, mock.Anything).Return(storedApp(), nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/applications", createReq())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decodeEnvelope(t, w).Error.Code)
}

func TestHandler_Create_InvalidJSON(t *testing.T) {
	r, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", decodeEnvelope(t, w).Error.Code)
}

func TestHandler_GetByID_NotFound(t *testing.T) {
	r, store, _ := newTestRouter()

	store.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/applications/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}

func TestHandler_GetByID_InvalidID(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/applications/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeEnvelope(t, w).Error.Code)
}

func TestHandler_List_DefaultsPagination(t *testing.T) {
	r, store, _ := newTestRouter()

	store.On("List", mock.Anything, 1, 10).Return([]Application{*storedApp()}, 1, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list ListResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.Pages)
	store.AssertExpectations(t)
}

func TestHandler_Search_ParsesDates(t *testing.T) {
	r, store, _ := newTestRouter()

	from, _ := time.Parse(DateLayout, "2026-01-01")
	store.On("Search", mock.Anything, mock.MatchedBy(func(f SearchFilters) bool {
		return f.Email == "jane" && f.DateFrom != nil && f.DateFrom.Equal(from) && f.DateTo == nil
	}), 1, 10).Return([]Application{}, 0, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/applications/search?email=jane&date_from=2026-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestHandler_Search_RejectsBadDate(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/applications/search?date_from=01-01-2026", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE", decodeEnvelope(t, w).Error.Code)
}

func TestHandler_Update_NoFields(t *testing.T) {
	r, store, _ := newTestRouter()

	store.On("GetByID", mock.Anything, int64(5)).Return(storedApp(), nil)

	w := doJSON(t, r, http.MethodPatch, "/api/v1/applications/5", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_FIELDS", decodeEnvelope(t, w).Error.Code)
}

func TestHandler_Delete_Success(t *testing.T) {
	r, store, deleter := newTestRouter()

	store.On("GetByID", mock.Anything, int64(5)).Return(storedApp(), nil)
	deleter.On("DeleteMany", mock.Anything, mock.Anything).Return(nil, true)
	store.On("Delete", mock.Anything, int64(5)).Return(nil)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/applications/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestHandler_CheckEmail(t *testing.T) {
	r, store, _ := newTestRouter()

	store.On("GetByEmail", mock.Anything, "a@b.com").Return(storedApp(), nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/check-email", gin.H{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]bool
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.True(t, data["exists"])
}

func TestHandler_CheckEmail_InvalidEmail(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/check-email", gin.H{"email": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_EMAIL", decodeEnvelope(t, w).Error.Code)
}
