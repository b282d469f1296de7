package memory

import (
	"context"

	"stringbox/internal/domain/repository"
)

// memTransactionManager satisfies repository.TransactionManager for the
// in-memory backend. The store has no rollback: each repository call is
// atomic under the store mutex, so a failed callback can leave earlier
// writes in place. Acceptable for development and tests, not for production.
type memTransactionManager struct {
	store *Store
}

// memRepositoryFactory hands out repositories sharing the manager's store.
type memRepositoryFactory struct {
	store *Store
}

func (f *memRepositoryFactory) NewUserRepository() repository.UserRepository {
	return NewUserRepository(f.store)
}

func (f *memRepositoryFactory) NewStringRepository() repository.StringRepository {
	return NewStringRepository(f.store)
}

// NewTransactionManager is the constructor for memTransactionManager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &memTransactionManager{store: store}
}

// Execute runs fn against the shared store.
func (tm *memTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(&memRepositoryFactory{store: tm.store})
}
