package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
	"github.com/Aryan9inja/edu-collab/internal/pkg/dberrors"
)

// UsernameRepository handles database operations for the username directory
type UsernameRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUsernameRepository creates a new UsernameRepository
func NewUsernameRepository(db *pgxpool.Pool) *UsernameRepository {
	return &UsernameRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a handle for a user. The unique index on LOWER(handle) and
// the user_id primary key both surface as ErrUsernameTaken / ErrConflict.
func (r *UsernameRepository) Create(ctx context.Context, userID int64, handle string) error {
	sql, args, err := r.sb.Insert("usernames").
		Columns("user_id", "handle").
		Values(userID, handle).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("error creating username: %w", err)
	}

	return nil
}

// GetByUserID retrieves the handle for a user
func (r *UsernameRepository) GetByUserID(ctx context.Context, userID int64) (*models.Username, error) {
	sql, args, err := r.sb.Select("user_id", "handle", "created_at").
		From("usernames").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var username models.Username
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&username.UserID,
		&username.Handle,
		&username.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUsernameNotFound
		}
		return nil, fmt.Errorf("error getting username: %w", err)
	}

	return &username, nil
}

// GetByUserIDs retrieves handles for a batch of users. Users without a
// handle are simply absent from the result map.
func (r *UsernameRepository) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	result := make(map[int64]string)
	if len(userIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select("user_id", "handle").
		From("usernames").
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var handle string
		if err := rows.Scan(&userID, &handle); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result[userID] = handle
	}

	return result, rows.Err()
}

// HandleExists performs a case-insensitive existence check for a handle.
func (r *UsernameRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM usernames WHERE LOWER(handle) = $1)`
	if err := r.db.QueryRow(ctx, query, strings.ToLower(handle)).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking handle existence: %w", err)
	}
	return exists, nil
}
