package repository

import (
	"context"
	"sync"
	"time"

	"crackexam-backend/models"

	"github.com/google/uuid"
)

// MemoryRepository keeps papers in process memory. Used in tests and as the
// zero-configuration default.
type MemoryRepository struct {
	mu     sync.RWMutex
	papers []*models.Paper
	index  map[string]int
}

// NewMemoryRepository creates an empty in-memory paper repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[string]int)}
}

func (r *MemoryRepository) Create(ctx context.Context, paper *models.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	paper.ID = uuid.NewString()
	paper.CreatedAt = time.Now().UTC()

	stored := *paper
	r.index[stored.ID] = len(r.papers)
	r.papers = append(r.papers, &stored)
	return nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]*models.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Insertion order already ascends by creation time, so newest first is
	// simply the reverse walk.
	papers := make([]*models.Paper, 0, len(r.papers))
	for i := len(r.papers) - 1; i >= 0; i-- {
		clone := *r.papers[i]
		papers = append(papers, &clone)
	}
	return papers, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r.papers[i]
	return &clone, nil
}

func (r *MemoryRepository) Update(ctx context.Context, paper *models.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[paper.ID]
	if !ok {
		return ErrNotFound
	}
	existing := r.papers[i]
	updated := *paper
	updated.CreatedAt = existing.CreatedAt
	r.papers[i] = &updated
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return ErrNotFound
	}
	r.papers = append(r.papers[:i], r.papers[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.papers); j++ {
		r.index[r.papers[j].ID] = j
	}
	return nil
}
