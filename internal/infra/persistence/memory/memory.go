// Package memory provides an in-process implementation of the persistence
// layer. It backs the development and testing storage backend and keeps the
// unit tests free of a database dependency. State lives for the process
// lifetime only.
package memory

import (
	"context"
	"sync"
	"time"

	"stringbox/internal/domain/entity"
	"stringbox/internal/domain/repository"

	"github.com/google/uuid"
)

// Store holds all in-memory state behind a single mutex. The repositories
// and the transaction manager share it so they observe the same data.
type Store struct {
	mu      sync.RWMutex
	users   []*entity.User
	byEmail map[string]*entity.User
	byID    map[uuid.UUID]*entity.User
	strings []*entity.StoredString
	nextID  int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		byEmail: make(map[string]*entity.User),
		byID:    make(map[uuid.UUID]*entity.User),
		nextID:  1,
	}
}

// Ping implements repository.HealthChecker. The store is always reachable.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// userRepository implements repository.UserRepository on top of Store.
type userRepository struct {
	store *Store
}

// NewUserRepository returns a user repository backed by the shared store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	user, ok := repo.store.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	user, ok := repo.store.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, exists := repo.store.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := cloneUser(user)
	repo.store.users = append(repo.store.users, stored)
	repo.store.byEmail[stored.Email] = stored
	repo.store.byID[stored.ID] = stored

	return nil
}

// stringRepository implements repository.StringRepository on top of Store.
type stringRepository struct {
	store *Store
}

// NewStringRepository returns a string repository backed by the shared store.
func NewStringRepository(store *Store) repository.StringRepository {
	return &stringRepository{store: store}
}

func (repo *stringRepository) Insert(ctx context.Context, s *entity.StoredString) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	s.ID = repo.store.nextID
	repo.store.nextID++
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	stored := *s
	repo.store.strings = append(repo.store.strings, &stored)

	return nil
}

func (repo *stringRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	return int64(len(repo.store.strings)), nil
}

func (repo *stringRepository) FindByOffset(ctx context.Context, offset int64) (*entity.StoredString, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	if offset < 0 || offset >= int64(len(repo.store.strings)) {
		return nil, repository.ErrStringNotFound
	}

	stored := *repo.store.strings[offset]

	return &stored, nil
}

func cloneUser(u *entity.User) *entity.User {
	cloned := *u

	return &cloned
}
