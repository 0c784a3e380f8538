package service

import (
	"context"
	"testing"
	"time"

	"community-calendar/core/cache"
	"community-calendar/core/config"
	"community-calendar/core/errors"
	"community-calendar/modules/auth/dto"
	"community-calendar/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthRepository struct {
	users    map[uuid.UUID]*entity.User
	sessions map[string]*entity.Session
	invites  map[string]*entity.Invite
}

func newFakeAuthRepository() *fakeAuthRepository {
	return &fakeAuthRepository{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[string]*entity.Session),
		invites:  make(map[string]*entity.Invite),
	}
}

func (f *fakeAuthRepository) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeAuthRepository) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepository) GetUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeAuthRepository) CreateSession(_ context.Context, session *entity.Session) error {
	stored := *session
	f.sessions[stored.Token] = &stored
	return nil
}

func (f *fakeAuthRepository) GetSessionByToken(_ context.Context, token string) (*entity.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeAuthRepository) DeleteSessionByToken(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeAuthRepository) DeleteExpiredSessions(_ context.Context) error { return nil }

func (f *fakeAuthRepository) CreateInvite(_ context.Context, invite *entity.Invite) error {
	stored := *invite
	f.invites[stored.Token] = &stored
	return nil
}

func (f *fakeAuthRepository) GetInviteByToken(_ context.Context, token string) (*entity.Invite, error) {
	i, ok := f.invites[token]
	if !ok {
		return nil, nil
	}
	copied := *i
	return &copied, nil
}

func (f *fakeAuthRepository) MarkInviteUsed(_ context.Context, id uuid.UUID, usedAt time.Time) error {
	for _, i := range f.invites {
		if i.ID == id {
			used := usedAt
			i.UsedAt = &used
		}
	}
	return nil
}

func setupAuthTest(t *testing.T) (*AuthService, *fakeAuthRepository) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)

	repo := newFakeAuthRepository()
	return NewAuthService(repo, cache.NewNoopCache()), repo
}

func addInvite(repo *fakeAuthRepository) string {
	token := "invite-token-1"
	repo.invites[token] = &entity.Invite{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	return token
}

func registerRequest(invite string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:       "New.Person@Example.com",
		Password:    "hunter22-long",
		DisplayName: "New Person",
		InviteToken: invite,
	}
}

func TestRegisterRedeemsInviteAndOpensSession(t *testing.T) {
	svc, repo := setupAuthTest(t)
	invite := addInvite(repo)

	result, appErr := svc.Register(context.Background(), registerRequest(invite))
	require.Nil(t, appErr)

	assert.Equal(t, "new.person@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, repo.invites[invite].UsedAt)
	require.Len(t, repo.sessions, 1)

	// The session token immediately authenticates.
	user, claims, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestRegisterRejectsBadInvite(t *testing.T) {
	svc, repo := setupAuthTest(t)

	_, appErr := svc.Register(context.Background(), registerRequest("no-such-token"))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// Used invites do not work twice.
	invite := addInvite(repo)
	_, appErr = svc.Register(context.Background(), registerRequest(invite))
	require.Nil(t, appErr)

	second := registerRequest(invite)
	second.Email = "someone.else@example.com"
	_, appErr = svc.Register(context.Background(), second)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc, repo := setupAuthTest(t)
	invite := addInvite(repo)

	short := registerRequest(invite)
	short.Password = "short"
	_, appErr := svc.Register(context.Background(), short)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	badEmail := registerRequest(invite)
	badEmail.Email = "not-an-email"
	_, appErr = svc.Register(context.Background(), badEmail)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestLogin(t *testing.T) {
	svc, repo := setupAuthTest(t)
	invite := addInvite(repo)

	_, appErr := svc.Register(context.Background(), registerRequest(invite))
	require.Nil(t, appErr)

	result, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "new.person@example.com",
		Password: "hunter22-long",
	})
	require.Nil(t, appErr)
	assert.NotEmpty(t, result.Token)

	_, appErr = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "new.person@example.com",
		Password: "wrong-password",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo := setupAuthTest(t)
	invite := addInvite(repo)

	result, appErr := svc.Register(context.Background(), registerRequest(invite))
	require.Nil(t, appErr)

	require.Nil(t, svc.Logout(context.Background(), result.Token))
	assert.Empty(t, repo.sessions)

	// A structurally valid JWT no longer authenticates once its session row
	// is gone.
	_, _, err := svc.Authenticate(context.Background(), result.Token)
	assert.Error(t, err)
}

func TestCreateInvite(t *testing.T) {
	svc, repo := setupAuthTest(t)

	result, appErr := svc.CreateInvite(context.Background())
	require.Nil(t, appErr)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Contains(t, repo.invites, result.Token)
}
