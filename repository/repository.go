package repository

import (
	"context"
	"errors"
	"fmt"

	"crackexam-backend/config"
	"crackexam-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no paper exists for the requested id.
var ErrNotFound = errors.New("paper not found")

// PaperRepository persists paper metadata independent of blob storage.
type PaperRepository interface {
	// Create assigns an id and creation timestamp, persists the record and
	// fills in the stored form on the passed paper.
	Create(ctx context.Context, paper *models.Paper) error

	// ListAll returns every record ordered by creation time descending.
	ListAll(ctx context.Context) ([]*models.Paper, error)

	// FindByID returns the record or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Paper, error)

	// Update replaces the mutable fields of the record matching paper.ID.
	// ID and CreatedAt are never changed. Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, paper *models.Paper) error

	// Delete removes the record or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// New builds the repository selected by configuration.
func New(ctx context.Context, cfg *config.Config) (PaperRepository, error) {
	switch cfg.Repository.Backend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Repository.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return NewPostgresRepository(pool), nil
	case "jsonfile":
		return NewJSONFileRepository(cfg.Repository.JSONPath)
	case "memory":
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown repository backend: %s", cfg.Repository.Backend)
	}
}
