package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"community-calendar/core/database"
	"community-calendar/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepository struct {
	db database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{db: db}
}

type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	CreateSession(ctx context.Context, session *entity.Session) error
	GetSessionByToken(ctx context.Context, token string) (*entity.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) error

	CreateInvite(ctx context.Context, invite *entity.Invite) error
	GetInviteByToken(ctx context.Context, token string) (*entity.Invite, error)
	MarkInviteUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, display_name)
		VALUES ($1, LOWER($2), $3, $4)
		RETURNING id, email, password_hash, display_name, created_at, updated_at`

	var created entity.User
	err := r.db.GetContext(ctx, &created, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users WHERE email = LOWER($1)`

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users WHERE id = $1`

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)`

	return r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.Token, session.ExpiresAt)
}

func (r *AuthRepository) GetSessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions WHERE token = $1`

	var session entity.Session
	err := r.db.GetContext(ctx, &session, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AuthRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	return r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
}

func (r *AuthRepository) DeleteExpiredSessions(ctx context.Context) error {
	return r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
}

func (r *AuthRepository) CreateInvite(ctx context.Context, invite *entity.Invite) error {
	query := `
		INSERT INTO invites (id, token, expires_at)
		VALUES ($1, $2, $3)`

	return r.db.ExecContext(ctx, query, invite.ID, invite.Token, invite.ExpiresAt)
}

func (r *AuthRepository) GetInviteByToken(ctx context.Context, token string) (*entity.Invite, error) {
	query := `
		SELECT id, token, used_at, expires_at, created_at
		FROM invites WHERE token = $1`

	var invite entity.Invite
	err := r.db.GetContext(ctx, &invite, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *AuthRepository) MarkInviteUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return r.db.ExecContext(ctx,
		`UPDATE invites SET used_at = $2 WHERE id = $1 AND used_at IS NULL`, id, usedAt)
}
