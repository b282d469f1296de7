package postgres

import (
	"context"

	"stringbox/internal/domain/entity"
	"stringbox/internal/domain/repository"
	"stringbox/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// stringRepository implements the domain.StringRepository interface using GORM.
type stringRepository struct {
	db *gorm.DB
}

// NewStringRepository is the constructor for stringRepository.
func NewStringRepository(db *gorm.DB) repository.StringRepository {
	return &stringRepository{db: db}
}

// Insert persists a new string row and fills in the generated ID.
func (repo *stringRepository) Insert(ctx context.Context, s *entity.StoredString) error {
	stringM := &model.StringModel{
		Value: s.Value,
	}

	if err := repo.db.WithContext(ctx).Create(stringM).Error; err != nil {
		return errors.Wrap(err, "failed to insert string")
	}

	s.ID = stringM.ID
	s.CreatedAt = stringM.CreatedAt

	return nil
}

// Count returns the number of stored strings.
func (repo *stringRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.StringModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count strings")
	}

	return count, nil
}

// FindByOffset returns the row at the given zero-based offset in insertion order.
// The ORDER BY makes the offset deterministic; Postgres gives no row order otherwise.
func (repo *stringRepository) FindByOffset(ctx context.Context, offset int64) (*entity.StoredString, error) {
	var stringM model.StringModel
	err := repo.db.WithContext(ctx).
		Order("id ASC").
		Offset(int(offset)).
		First(&stringM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStringNotFound
		}

		return nil, errors.Wrap(err, "failed to find string by offset")
	}

	return &entity.StoredString{
		ID:        stringM.ID,
		Value:     stringM.Value,
		CreatedAt: stringM.CreatedAt,
	}, nil
}
