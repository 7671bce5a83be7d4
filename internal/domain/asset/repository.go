package asset

import (
	"context"

	"github.com/factoring/backend/internal/domain/shared"
)

// AssetRepository defines the interface for asset record persistence
type AssetRepository interface {
	// FindByAssetNumber finds an asset record by its asset number
	FindByAssetNumber(ctx context.Context, assetNumber uint64) (*AssetRecord, error)

	// ExistsByAssetNumber checks whether an asset number is already taken
	ExistsByAssetNumber(ctx context.Context, assetNumber uint64) (bool, error)

	// FindAll returns asset records with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]AssetRecord, error)

	// Create inserts a new asset record; a duplicate asset number fails
	// with ErrAlreadyExists
	Create(ctx context.Context, record *AssetRecord) error

	// Save updates an existing asset record
	Save(ctx context.Context, record *AssetRecord) error

	// Count returns the total number of asset records
	Count(ctx context.Context) (int64, error)
}

// RegistryConfig holds the registry-level configuration persisted alongside
// the asset table: the metadata base URI and the formula engine version tag.
type RegistryConfig struct {
	shared.BaseEntity
	BaseURI         string `json:"base_uri"`
	FormulasVersion string `json:"formulas_version"`
}

// RegistryConfigRepository persists the single registry configuration row
type RegistryConfigRepository interface {
	// Get returns the current registry configuration, or a zero-valued
	// configuration when none has been saved yet
	Get(ctx context.Context) (*RegistryConfig, error)

	// Save creates or updates the registry configuration
	Save(ctx context.Context, cfg *RegistryConfig) error
}
