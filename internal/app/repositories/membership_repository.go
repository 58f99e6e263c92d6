package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
)

// MembershipRepository handles database operations for classroom membership
// and access grants. Both sets are plain rows with unique constraints, so
// add/remove are atomic even under concurrent writers.
type MembershipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AddMember adds a user to a classroom. Adding an existing member is a
// no-op, which keeps joins idempotent.
func (r *MembershipRepository) AddMember(ctx context.Context, classroomID, userID int64) error {
	query := `
		INSERT INTO classroom_members (classroom_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (classroom_id, user_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, classroomID, userID); err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}

	return nil
}

// RemoveMember removes a user from a classroom's member set
func (r *MembershipRepository) RemoveMember(ctx context.Context, classroomID, userID int64) error {
	sql, args, err := r.sb.Delete("classroom_members").
		Where(squirrel.Eq{"classroom_id": classroomID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}

	return nil
}

// IsMember checks if a user has a membership row in a classroom
func (r *MembershipRepository) IsMember(ctx context.Context, classroomID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("classroom_members").
		Where(squirrel.Eq{"classroom_id": classroomID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking membership: %w", err)
	}

	return true, nil
}

// GetMembers retrieves all membership rows for a classroom in join order
func (r *MembershipRepository) GetMembers(ctx context.Context, classroomID int64) ([]*models.ClassroomMember, error) {
	sql, args, err := r.sb.Select("id", "classroom_id", "user_id", "joined_at").
		From("classroom_members").
		Where(squirrel.Eq{"classroom_id": classroomID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var members []*models.ClassroomMember
	for rows.Next() {
		var member models.ClassroomMember
		err := rows.Scan(&member.ID, &member.ClassroomID, &member.UserID, &member.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		members = append(members, &member)
	}

	return members, rows.Err()
}

// AddGrantee records an access grant. Granting to an existing grantee is a no-op.
func (r *MembershipRepository) AddGrantee(ctx context.Context, classroomID, userID, grantedBy int64) error {
	query := `
		INSERT INTO classroom_grantees (classroom_id, user_id, granted_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (classroom_id, user_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, classroomID, userID, grantedBy); err != nil {
		return fmt.Errorf("error adding grantee: %w", err)
	}

	return nil
}

// RemoveGrantee removes an access grant; removing a missing grant is a no-op
func (r *MembershipRepository) RemoveGrantee(ctx context.Context, classroomID, userID int64) error {
	sql, args, err := r.sb.Delete("classroom_grantees").
		Where(squirrel.Eq{"classroom_id": classroomID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error removing grantee: %w", err)
	}

	return nil
}
