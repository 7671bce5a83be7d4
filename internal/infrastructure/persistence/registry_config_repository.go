package persistence

import (
	"context"
	"errors"

	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRegistryConfigRepository implements RegistryConfigRepository using GORM.
// The backing table holds a single row.
type GormRegistryConfigRepository struct {
	db *gorm.DB
}

// NewGormRegistryConfigRepository creates a new GormRegistryConfigRepository
func NewGormRegistryConfigRepository(db *gorm.DB) *GormRegistryConfigRepository {
	return &GormRegistryConfigRepository{db: db}
}

// Get returns the current registry configuration. When no row has been saved
// yet a zero-valued configuration is returned.
func (r *GormRegistryConfigRepository) Get(ctx context.Context) (*asset.RegistryConfig, error) {
	var model models.RegistryConfigModel
	if err := r.db.WithContext(ctx).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &asset.RegistryConfig{}, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the registry configuration
func (r *GormRegistryConfigRepository) Save(ctx context.Context, cfg *asset.RegistryConfig) error {
	var model models.RegistryConfigModel
	model.FromDomain(cfg)
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// Ensure GormRegistryConfigRepository implements RegistryConfigRepository
var _ asset.RegistryConfigRepository = (*GormRegistryConfigRepository)(nil)
