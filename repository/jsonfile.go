package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"crackexam-backend/models"

	"github.com/google/uuid"
)

// JSONFileRepository persists papers as a single JSON document holding an
// array of records. The file is read fully and rewritten fully on every
// mutation; there are no partial writes.
type JSONFileRepository struct {
	mu   sync.Mutex
	path string
}

// NewJSONFileRepository creates a repository backed by the given file,
// creating its parent directory when missing.
func NewJSONFileRepository(path string) (*JSONFileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONFileRepository{path: path}, nil
}

func (r *JSONFileRepository) Create(ctx context.Context, paper *models.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	papers, err := r.load()
	if err != nil {
		return err
	}

	paper.ID = uuid.NewString()
	paper.CreatedAt = time.Now().UTC()

	stored := *paper
	papers = append(papers, &stored)
	return r.save(papers)
}

func (r *JSONFileRepository) ListAll(ctx context.Context) ([]*models.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	papers, err := r.load()
	if err != nil {
		return nil, err
	}

	// Records are appended in creation order; newest first is the reverse.
	out := make([]*models.Paper, 0, len(papers))
	for i := len(papers) - 1; i >= 0; i-- {
		out = append(out, papers[i])
	}
	return out, nil
}

func (r *JSONFileRepository) FindByID(ctx context.Context, id string) (*models.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	papers, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, p := range papers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *JSONFileRepository) Update(ctx context.Context, paper *models.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	papers, err := r.load()
	if err != nil {
		return err
	}
	for i, p := range papers {
		if p.ID == paper.ID {
			updated := *paper
			updated.CreatedAt = p.CreatedAt
			papers[i] = &updated
			return r.save(papers)
		}
	}
	return ErrNotFound
}

func (r *JSONFileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	papers, err := r.load()
	if err != nil {
		return err
	}
	for i, p := range papers {
		if p.ID == id {
			papers = append(papers[:i], papers[i+1:]...)
			return r.save(papers)
		}
	}
	return ErrNotFound
}

func (r *JSONFileRepository) load() ([]*models.Paper, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read papers file: %w", err)
	}
	var papers []*models.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("decode papers file: %w", err)
	}
	return papers, nil
}

func (r *JSONFileRepository) save(papers []*models.Paper) error {
	if papers == nil {
		papers = []*models.Paper{}
	}
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode papers file: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write papers file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace papers file: %w", err)
	}
	return nil
}
