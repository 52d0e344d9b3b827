package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/domain"
)

func newTestUserService(t *testing.T) (domain.UserService, *fakeUserRepo, *fakeCodeRepo, *fakeEmailService) {
	t.Helper()
	users := newFakeUserRepo()
	codes := newFakeCodeRepo()
	emails := &fakeEmailService{}
	svc := NewUserService(users, codes, plainHasher{}, staticIssuer{}, emails, 2*time.Second)
	return svc, users, codes, emails
}

func TestUserService_RequestLoginCode(t *testing.T) {
	svc, _, codes, emails := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestLoginCode(ctx, " Ana@Example.COM "))

	id, hash, err := codes.GetActive(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, hash)

	require.Len(t, emails.enqueued, 1)
	assert.Equal(t, "login_code", emails.enqueued[0].template)
	assert.Equal(t, "ana@example.com", emails.enqueued[0].recipient)
	assert.Len(t, emails.enqueued[0].variables["Code"], loginCodeLength)
	assert.Equal(t, "10", emails.enqueued[0].variables["ExpiresInMinutes"])
}

func TestUserService_RequestLoginCode_bad_email(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)
	assert.ErrorIs(t, svc.RequestLoginCode(context.Background(), "not-an-email"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.RequestLoginCode(context.Background(), ""), domain.ErrInvalidInput)
}

func TestUserService_VerifyLoginCode_creates_user(t *testing.T) {
	svc, users, codes, _ := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, codes.Create(ctx, "new@example.com", "hash:123456", time.Now().Add(10*time.Minute)))

	token, user, err := svc.VerifyLoginCode(ctx, "new@example.com", "123456")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "token-for-"+user.ID, token)

	// Account was created on first login.
	stored, err := users.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	// Codes are single use.
	_, _, err = svc.VerifyLoginCode(ctx, "new@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_VerifyLoginCode_existing_user(t *testing.T) {
	svc, users, codes, _ := newTestUserService(t)
	ctx := context.Background()

	existing := domain.NewUser("ana@example.com", "Ana", "Silva", time.Now(), time.Now())
	require.NoError(t, users.Create(ctx, existing))
	require.NoError(t, codes.Create(ctx, "ana@example.com", "hash:654321", time.Now().Add(10*time.Minute)))

	_, user, err := svc.VerifyLoginCode(ctx, "ana@example.com", "654321")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "Ana", user.Name)
}

func TestUserService_VerifyLoginCode_wrong_code(t *testing.T) {
	svc, _, codes, _ := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, codes.Create(ctx, "ana@example.com", "hash:111111", time.Now().Add(10*time.Minute)))

	_, _, err := svc.VerifyLoginCode(ctx, "ana@example.com", "222222")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Wrong code does not burn the stored one.
	_, user, err := svc.VerifyLoginCode(ctx, "ana@example.com", "111111")
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestUserService_VerifyLoginCode_expired(t *testing.T) {
	svc, _, codes, _ := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, codes.Create(ctx, "ana@example.com", "hash:111111", time.Now().Add(-time.Minute)))

	_, _, err := svc.VerifyLoginCode(ctx, "ana@example.com", "111111")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_GetByID_and_Update(t *testing.T) {
	svc, users, _, _ := newTestUserService(t)
	ctx := context.Background()

	u := domain.NewUser("ana@example.com", "Ana", "Silva", time.Now(), time.Now())
	require.NoError(t, users.Create(ctx, u))

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	got.Name = "Anabela"
	require.NoError(t, svc.Update(ctx, got))
	again, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anabela", again.Name)

	assert.ErrorIs(t, svc.Update(ctx, &domain.User{}), domain.ErrInvalidInput)
}
