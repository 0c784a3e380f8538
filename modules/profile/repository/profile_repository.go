package repository

import (
	"context"
	"database/sql"
	"errors"

	"community-calendar/core/database"
	authentity "community-calendar/modules/auth/entity"

	"github.com/google/uuid"
)

type ProfileRepository struct {
	db database.IDatabase
}

func NewProfileRepository(db database.IDatabase) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type ProfileRepositoryInterface interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*authentity.User, error)
	CountEventsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*authentity.User, error)
	RenameEventCreator(ctx context.Context, userID uuid.UUID, displayName string) error
}

func (r *ProfileRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*authentity.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, created_at, updated_at
		FROM users WHERE id = $1`

	var user authentity.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *ProfileRepository) CountEventsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM events WHERE created_by = $1`, userID)
	return count, err
}

func (r *ProfileRepository) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*authentity.User, error) {
	query := `
		UPDATE users SET display_name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, password_hash, display_name, created_at, updated_at`

	var user authentity.User
	err := r.db.GetContext(ctx, &user, query, userID, displayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RenameEventCreator keeps the denormalized creator_name column in step with
// the profile.
func (r *ProfileRepository) RenameEventCreator(ctx context.Context, userID uuid.UUID, displayName string) error {
	return r.db.ExecContext(ctx,
		`UPDATE events SET creator_name = $2 WHERE created_by = $1`, userID, displayName)
}
