// Package notes provides PostgreSQL-backed note persistence.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the note and fills in its generated ID.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`INSERT INTO notes (title, content, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query, note.Title, note.Content, note.OwnerID).Scan(&note.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query :=
		`SELECT id, title, content, owner_id FROM notes
		 WHERE id = $1
		 `

	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&note.ID, &note.Title, &note.Content, &note.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

// ListByOwner returns every note of ownerID ordered by id. An owner without
// notes yields an empty, non-nil slice.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Note, error) {
	query :=
		`SELECT id, title, content, owner_id FROM notes
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		var item models.Note
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.OwnerID); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces title and content of an existing note.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`UPDATE notes SET title = $2, content = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, note.ID, note.Title, note.Content)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
