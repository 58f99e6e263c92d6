package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

// ClassroomRepository handles database operations for classrooms
type ClassroomRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassroomRepository creates a new ClassroomRepository
func NewClassroomRepository(db *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new classroom and sets its generated ID and timestamps
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	query := `
		INSERT INTO classrooms (name, admin_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, classroom.Name, classroom.AdminID).
		Scan(&classroom.ID, &classroom.CreatedAt, &classroom.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating classroom: %w", err)
	}

	return nil
}

// GetByID retrieves a classroom with its member and grantee id sets loaded
func (r *ClassroomRepository) GetByID(ctx context.Context, id int64) (*models.Classroom, error) {
	query := `
		SELECT id, name, admin_id, created_at, updated_at
		FROM classrooms
		WHERE id = $1
	`

	var classroom models.Classroom
	err := r.db.QueryRow(ctx, query, id).Scan(
		&classroom.ID,
		&classroom.Name,
		&classroom.AdminID,
		&classroom.CreatedAt,
		&classroom.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassroomNotFound
		}
		return nil, fmt.Errorf("error getting classroom: %w", err)
	}

	classroom.MemberIDs, err = r.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	classroom.GranteeIDs, err = r.granteeIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &classroom, nil
}

// ListForUser retrieves every classroom where the user is the admin or a
// member, ordered by id so the listing is stable across calls.
func (r *ClassroomRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Classroom, error) {
	query := `
		SELECT DISTINCT c.id, c.name, c.admin_id, c.created_at, c.updated_at
		FROM classrooms c
		LEFT JOIN classroom_members cm ON cm.classroom_id = c.id
		WHERE c.admin_id = $1 OR cm.user_id = $1
		ORDER BY c.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	classrooms := []*models.Classroom{}
	for rows.Next() {
		var classroom models.Classroom
		err := rows.Scan(
			&classroom.ID,
			&classroom.Name,
			&classroom.AdminID,
			&classroom.CreatedAt,
			&classroom.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		classrooms = append(classrooms, &classroom)
	}

	return classrooms, rows.Err()
}

// UpdateName renames a classroom
func (r *ClassroomRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query := `
		UPDATE classrooms
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("error updating classroom: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}

	return nil
}

// Delete removes a classroom record. Membership, grant and note-link rows
// go with it via foreign key cascade.
func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("classrooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting classroom: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}

	return nil
}

// memberIDs loads the membership id set in join order
func (r *ClassroomRepository) memberIDs(ctx context.Context, classroomID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("classroom_members").
		Where(squirrel.Eq{"classroom_id": classroomID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return r.queryIDs(ctx, sql, args)
}

// granteeIDs loads the access grant id set
func (r *ClassroomRepository) granteeIDs(ctx context.Context, classroomID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("classroom_grantees").
		Where(squirrel.Eq{"classroom_id": classroomID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return r.queryIDs(ctx, sql, args)
}

func (r *ClassroomRepository) queryIDs(ctx context.Context, sql string, args []interface{}) ([]int64, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
