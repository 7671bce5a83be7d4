package persistence

import (
	"context"
	"errors"

	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/domain/shared"
	"github.com/factoring/backend/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByAssetNumber finds an asset record by its asset number
func (r *GormAssetRepository) FindByAssetNumber(ctx context.Context, assetNumber uint64) (*asset.AssetRecord, error) {
	var model models.AssetRecordModel
	if err := r.db.WithContext(ctx).
		Where("asset_number = ?", assetNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByAssetNumber checks whether an asset number is already taken
func (r *GormAssetRepository) ExistsByAssetNumber(ctx context.Context, assetNumber uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AssetRecordModel{}).
		Where("asset_number = ?", assetNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all asset records matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.AssetRecord, error) {
	var rows []models.AssetRecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AssetRecordModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]asset.AssetRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Create inserts a new asset record
func (r *GormAssetRepository) Create(ctx context.Context, record *asset.AssetRecord) error {
	var model models.AssetRecordModel
	model.FromDomain(record)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing asset record
func (r *GormAssetRepository) Save(ctx context.Context, record *asset.AssetRecord) error {
	var model models.AssetRecordModel
	model.FromDomain(record)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Count counts all asset records
func (r *GormAssetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AssetRecordModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies ordering and pagination to the query
func (r *GormAssetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, AssetRecordSortFields, "asset_number")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("asset_number ASC")
	}

	return query
}

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// isDuplicateKey reports whether the error is a unique constraint violation.
// GORM surfaces these as gorm.ErrDuplicatedKey when error translation is on;
// otherwise the raw driver error carries SQLSTATE 23505 (pgconn for the GORM
// connection, pq for database/sql callers).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// Ensure GormAssetRepository implements AssetRepository
var _ asset.AssetRepository = (*GormAssetRepository)(nil)
