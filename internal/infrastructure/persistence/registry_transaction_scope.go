package persistence

import (
	"context"

	appregistry "github.com/factoring/backend/internal/application/registry"
	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormRegistryTransactionScope implements the registry TransactionScope using
// GORM transactions. Asset creation writes the record and mints the token
// atomically through it.
type GormRegistryTransactionScope struct {
	db *gorm.DB
}

// NewGormRegistryTransactionScope creates a new GormRegistryTransactionScope.
func NewGormRegistryTransactionScope(db *gorm.DB) *GormRegistryTransactionScope {
	return &GormRegistryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormRegistryTransactionScope) Execute(ctx context.Context, fn func(repos appregistry.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormRegistryTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormRegistryTransactionalRepositories provides the registry collaborators
// scoped to one transaction.
type gormRegistryTransactionalRepositories struct {
	tx *gorm.DB
}

// Assets returns the asset repository scoped to the current transaction.
func (r *gormRegistryTransactionalRepositories) Assets() asset.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

// Ownership returns the ownership ledger scoped to the current transaction.
func (r *gormRegistryTransactionalRepositories) Ownership() ledger.OwnershipLedger {
	return NewGormOwnershipLedger(r.tx)
}

// Ensure GormRegistryTransactionScope implements TransactionScope
var _ appregistry.TransactionScope = (*GormRegistryTransactionScope)(nil)

// Ensure gormRegistryTransactionalRepositories implements TransactionalRepositories
var _ appregistry.TransactionalRepositories = (*gormRegistryTransactionalRepositories)(nil)
