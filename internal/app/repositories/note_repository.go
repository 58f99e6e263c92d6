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

// NoteRepository handles the classroom_notes link table tying uploaded
// files into a classroom's note sequence.
type NoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Link attaches a file to a classroom's note sequence
func (r *NoteRepository) Link(ctx context.Context, classroomID, fileID int64) error {
	sql, args, err := r.sb.Insert("classroom_notes").
		Columns("classroom_id", "file_id").
		Values(classroomID, fileID).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error linking note: %w", err)
	}

	return nil
}

// Unlink detaches a file from a classroom. Returns ErrNoteNotFound when the
// link does not exist.
func (r *NoteRepository) Unlink(ctx context.Context, classroomID, fileID int64) error {
	sql, args, err := r.sb.Delete("classroom_notes").
		Where(squirrel.Eq{"classroom_id": classroomID, "file_id": fileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error unlinking note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}

// Exists checks whether a file is linked into a classroom
func (r *NoteRepository) Exists(ctx context.Context, classroomID, fileID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("classroom_notes").
		Where(squirrel.Eq{"classroom_id": classroomID, "file_id": fileID}).
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
		return false, fmt.Errorf("error checking note link: %w", err)
	}

	return true, nil
}

// GetFilesByClassroomID retrieves the classroom's note files in upload order
func (r *NoteRepository) GetFilesByClassroomID(ctx context.Context, classroomID int64) ([]*models.File, error) {
	query := `
		SELECT f.id, f.file_name, f.file_path, f.file_url, f.file_size,
			f.file_type, f.uploaded_by, f.created_at
		FROM files f
		JOIN classroom_notes cn ON cn.file_id = f.id
		WHERE cn.classroom_id = $1
		ORDER BY cn.id
	`

	rows, err := r.db.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.FileName,
			&file.FilePath,
			&file.FileURL,
			&file.FileSize,
			&file.FileType,
			&file.UploadedBy,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		files = append(files, &file)
	}

	return files, rows.Err()
}
