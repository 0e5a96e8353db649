package credentialrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/yanqian/outfitcast/internal/domain/credential"
)

var errDuplicateID = errors.New("credential id already exists")

// MemoryRepository provides an in-memory credential store for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]credential.Credential
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]credential.Credential)}
}

// Create stores the credential record.
func (r *MemoryRepository) Create(_ context.Context, cred credential.Credential) (credential.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[cred.ID]; exists {
		return credential.Credential{}, errDuplicateID
	}
	r.items[cred.ID] = cred
	return cred, nil
}

// Get fetches a credential by id.
func (r *MemoryRepository) Get(_ context.Context, id string) (credential.Credential, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.items[id]
	return cred, ok, nil
}

var _ credential.Repository = (*MemoryRepository)(nil)
