package repository

import (
	"context"
	"errors"
	"fmt"

	"crackexam-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores papers in a Postgres table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed paper repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists a new paper; id and created_at come from table defaults.
func (r *PostgresRepository) Create(ctx context.Context, paper *models.Paper) error {
	query := `
		INSERT INTO papers (
			college, degree, stream, subject, year, file_name, content, blob_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		paper.College,
		paper.Degree,
		paper.Stream,
		paper.Subject,
		paper.Year,
		paper.FileName,
		paper.Content,
		paper.BlobID,
	).Scan(&paper.ID, &paper.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert paper: %w", err)
	}
	return nil
}

// Ties on created_at break on id so the listing order stays deterministic.
const listPapersQuery = `
	SELECT id, college, degree, stream, subject, year, file_name, content, blob_id, created_at
	FROM papers
	ORDER BY created_at DESC, id DESC`

// ListAll returns every paper, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Paper, error) {
	rows, err := r.db.Query(ctx, listPapersQuery)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	var papers []*models.Paper
	for rows.Next() {
		paper := &models.Paper{}
		err := rows.Scan(
			&paper.ID,
			&paper.College,
			&paper.Degree,
			&paper.Stream,
			&paper.Subject,
			&paper.Year,
			&paper.FileName,
			&paper.Content,
			&paper.BlobID,
			&paper.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, paper)
	}
	return papers, rows.Err()
}

// FindByID retrieves a single paper.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Paper, error) {
	paper := &models.Paper{}
	query := `
		SELECT id, college, degree, stream, subject, year, file_name, content, blob_id, created_at
		FROM papers
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&paper.ID,
		&paper.College,
		&paper.Degree,
		&paper.Stream,
		&paper.Subject,
		&paper.Year,
		&paper.FileName,
		&paper.Content,
		&paper.BlobID,
		&paper.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find paper: %w", err)
	}
	return paper, nil
}

// Update rewrites the mutable fields of an existing paper.
func (r *PostgresRepository) Update(ctx context.Context, paper *models.Paper) error {
	query := `
		UPDATE papers
		SET college = $2, degree = $3, stream = $4, subject = $5, year = $6,
		    file_name = $7, content = $8, blob_id = $9
		WHERE id = $1`

	tag, err := r.db.Exec(
		ctx, query,
		paper.ID,
		paper.College,
		paper.Degree,
		paper.Stream,
		paper.Subject,
		paper.Year,
		paper.FileName,
		paper.Content,
		paper.BlobID,
	)
	if err != nil {
		return fmt.Errorf("update paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a paper row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
