package persistence

import (
	"context"

	appexchange "github.com/factoring/backend/internal/application/exchange"
	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormExchangeTransactionScope implements the exchange TransactionScope using
// GORM transactions. A purchase moves value and ownership in one unit; a
// batch purchase extends that unit over every asset in the batch.
type GormExchangeTransactionScope struct {
	db *gorm.DB
}

// NewGormExchangeTransactionScope creates a new GormExchangeTransactionScope.
func NewGormExchangeTransactionScope(db *gorm.DB) *GormExchangeTransactionScope {
	return &GormExchangeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormExchangeTransactionScope) Execute(ctx context.Context, fn func(repos appexchange.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormExchangeTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormExchangeTransactionalRepositories provides the exchange collaborators
// scoped to one transaction.
type gormExchangeTransactionalRepositories struct {
	tx *gorm.DB
}

// Assets returns the asset repository scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) Assets() asset.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

// Ownership returns the ownership ledger scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) Ownership() ledger.OwnershipLedger {
	return NewGormOwnershipLedger(r.tx)
}

// Value returns the value ledger scoped to the current transaction.
func (r *gormExchangeTransactionalRepositories) Value() ledger.ValueLedger {
	return NewGormValueLedger(r.tx)
}

// Ensure GormExchangeTransactionScope implements TransactionScope
var _ appexchange.TransactionScope = (*GormExchangeTransactionScope)(nil)

// Ensure gormExchangeTransactionalRepositories implements TransactionalRepositories
var _ appexchange.TransactionalRepositories = (*gormExchangeTransactionalRepositories)(nil)
