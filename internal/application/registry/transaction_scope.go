package registry

import (
	"context"

	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the asset repository and
// the ownership ledger. Asset creation writes both: the record insert and
// the token mint must commit or roll back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the registry's collaborators
// within a transaction. Everything returned shares the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Assets returns the asset repository scoped to the current transaction
	Assets() asset.AssetRepository
	// Ownership returns the ownership ledger scoped to the current transaction
	Ownership() ledger.OwnershipLedger
}

// NoOpTransactionScope runs the function against fixed collaborators without
// a real transaction. Used in tests.
type NoOpTransactionScope struct {
	assetRepo asset.AssetRepository
	ownership ledger.OwnershipLedger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope.
func NewNoOpTransactionScope(assetRepo asset.AssetRepository, ownership ledger.OwnershipLedger) *NoOpTransactionScope {
	return &NoOpTransactionScope{assetRepo: assetRepo, ownership: ownership}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Assets returns the asset repository.
func (s *NoOpTransactionScope) Assets() asset.AssetRepository {
	return s.assetRepo
}

// Ownership returns the ownership ledger.
func (s *NoOpTransactionScope) Ownership() ledger.OwnershipLedger {
	return s.ownership
}
