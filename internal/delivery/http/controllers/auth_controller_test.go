package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/domain"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	requestCodeErr error
	verifyToken    string
	verifyUser     *domain.User
	verifyErr      error
	getResult      *domain.User
	getErr         error
	updateErr      error
	lastEmail      string
	lastCode       string
	lastUserID     string
	lastUpdated    *domain.User
}

func (f *fakeUserService) RequestLoginCode(ctx context.Context, email string) error {
	f.lastEmail = email
	return f.requestCodeErr
}

func (f *fakeUserService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	f.lastEmail, f.lastCode = email, code
	return f.verifyToken, f.verifyUser, f.verifyErr
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.lastUserID = id
	return f.getResult, f.getErr
}

func (f *fakeUserService) Update(ctx context.Context, user *domain.User) error {
	f.lastUpdated = user
	return f.updateErr
}

func TestAuthController_RequestCode(t *testing.T) {
	svc := &fakeUserService{}
	c := NewAuthController(testLogger, svc)

	req := newJSONRequest(t, http.MethodPost, "/auth/code/request",
		RequestCodeRequest{Email: "ana@example.com"}, nil)
	rec := httptest.NewRecorder()
	c.RequestCode(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ana@example.com", svc.lastEmail)
}

func TestAuthController_RequestCode_bad_email(t *testing.T) {
	c := NewAuthController(testLogger, &fakeUserService{})

	req := newJSONRequest(t, http.MethodPost, "/auth/code/request",
		RequestCodeRequest{Email: "nope"}, nil)
	rec := httptest.NewRecorder()
	c.RequestCode(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthController_VerifyCode(t *testing.T) {
	svc := &fakeUserService{
		verifyToken: "jwt-token",
		verifyUser:  &domain.User{ID: "user-1", Email: "ana@example.com"},
	}
	c := NewAuthController(testLogger, svc)

	req := newJSONRequest(t, http.MethodPost, "/auth/code/verify",
		VerifyCodeRequest{Email: "ana@example.com", Code: "123456"}, nil)
	rec := httptest.NewRecorder()
	c.VerifyCode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data, _ := decodeEnvelope(t, rec)
	var resp VerifyCodeResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestAuthController_VerifyCode_wrong_code(t *testing.T) {
	svc := &fakeUserService{verifyErr: domain.ErrInvalidInput}
	c := NewAuthController(testLogger, svc)

	req := newJSONRequest(t, http.MethodPost, "/auth/code/verify",
		VerifyCodeRequest{Email: "ana@example.com", Code: "000000"}, nil)
	rec := httptest.NewRecorder()
	c.VerifyCode(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserController_GetMe(t *testing.T) {
	svc := &fakeUserService{getResult: &domain.User{ID: "user-1", Name: "Ana"}}
	c := NewUserController(testLogger, svc)

	req := asUser(newJSONRequest(t, http.MethodGet, "/users/me", nil, nil), "user-1")
	rec := httptest.NewRecorder()
	c.GetMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", svc.lastUserID)
}

func TestUserController_UpdateMe(t *testing.T) {
	svc := &fakeUserService{getResult: &domain.User{ID: "user-1", Name: "Ana", LastName: "Silva"}}
	c := NewUserController(testLogger, svc)

	name := "Anabela"
	req := asUser(newJSONRequest(t, http.MethodPatch, "/users/me",
		UpdateMeRequest{Name: &name}, nil), "user-1")
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastUpdated)
	assert.Equal(t, "Anabela", svc.lastUpdated.Name)
	assert.Equal(t, "Silva", svc.lastUpdated.LastName)
}
