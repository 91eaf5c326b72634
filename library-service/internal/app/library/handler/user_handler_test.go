package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/service"
)

func TestAddUserHandler_Success(t *testing.T) {
	router, svc := setupTestRouter(nil)

	id := primitive.NewObjectID()
	svc.users.On("AddUser", mock.Anything, &entity.UserRequest{Email: "ada@example.com", DisplayName: "Ada"}).
		Return(&entity.User{ID: id, Email: "ada@example.com"}, nil)

	w := performRequest(router, http.MethodPost, "/users", map[string]interface{}{
		"email":       "ada@example.com",
		"displayName": "Ada",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"insertedId":"`+id.Hex()+`"}`, w.Body.String())
}

func TestAddUserHandler_Duplicate(t *testing.T) {
	router, svc := setupTestRouter(nil)
	svc.users.On("AddUser", mock.Anything, mock.Anything).Return(nil, service.ErrUserExists)

	w := performRequest(router, http.MethodPost, "/users", map[string]interface{}{"email": "ada@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddUserHandler_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "missing email", body: map[string]interface{}{"displayName": "Ada"}},
		{name: "invalid email", body: map[string]interface{}{"email": "ada"}},
		{name: "unknown role", body: map[string]interface{}{"email": "ada@example.com", "role": "root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(nil)

			w := performRequest(router, http.MethodPost, "/users", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.users.AssertNotCalled(t, "AddUser", mock.Anything, mock.Anything)
		})
	}
}

func TestUpsertUserHandler(t *testing.T) {
	router, svc := setupTestRouter(nil)
	svc.users.On("UpsertUser", mock.Anything, &entity.UserRequest{Email: "ada@example.com", Role: "admin"}).
		Return(&entity.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	w := performRequest(router, http.MethodPut, "/users", map[string]interface{}{
		"email": "ada@example.com",
		"role":  "admin",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"acknowledged": true,
		"matchedCount": 1,
		"modifiedCount": 1,
		"upsertedCount": 0,
		"upsertedId": null
	}`, w.Body.String())
}

func TestUpsertUserHandler_StoreError(t *testing.T) {
	router, svc := setupTestRouter(nil)
	svc.users.On("UpsertUser", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	w := performRequest(router, http.MethodPut, "/users", map[string]interface{}{"email": "ada@example.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to save user"}`, w.Body.String())
}

func TestGetAdminStatusHandler(t *testing.T) {
	tests := []struct {
		name     string
		isAdmin  bool
		wantBody string
	}{
		{name: "admin", isAdmin: true, wantBody: `{"admin":true}`},
		{name: "not admin", isAdmin: false, wantBody: `{"admin":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(nil)
			svc.users.On("IsAdmin", mock.Anything, "ada@example.com").Return(tt.isAdmin, nil)

			w := performRequest(router, http.MethodGet, "/users/ada@example.com", nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestPromoteToAdminHandler_Granted(t *testing.T) {
	router, svc := setupTestRouter(nil)
	svc.users.On("PromoteToAdmin", mock.Anything, "boss@example.com", &entity.PromoteAdminRequest{Email: "ada@example.com"}).
		Return(&entity.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	w := performRequest(router, http.MethodPut, "/users/admin/boss@example.com", map[string]interface{}{
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var got entity.UpdateResponse
	decodeBody(t, w, &got)
	assert.True(t, got.Acknowledged)
	assert.Equal(t, int64(1), got.ModifiedCount)
}

func TestPromoteToAdminHandler_Forbidden(t *testing.T) {
	router, svc := setupTestRouter(nil)
	svc.users.On("PromoteToAdmin", mock.Anything, "joe@example.com", mock.Anything).Return(nil, service.ErrForbidden)

	w := performRequest(router, http.MethodPut, "/users/admin/joe@example.com", map[string]interface{}{
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Requester is not an admin"}`, w.Body.String())
}

func TestPromoteToAdminHandler_MissingTarget(t *testing.T) {
	router, svc := setupTestRouter(nil)

	w := performRequest(router, http.MethodPut, "/users/admin/boss@example.com", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.users.AssertNotCalled(t, "PromoteToAdmin", mock.Anything, mock.Anything, mock.Anything)
}
