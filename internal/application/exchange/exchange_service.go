package exchange

import (
	"context"
	"errors"
	"sync"

	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/domain/ledger"
	"github.com/factoring/backend/internal/domain/shared"
	"github.com/factoring/backend/internal/infrastructure/logger"
	"github.com/factoring/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExchangeService sells asset ownership tokens against the value ledger.
// The exchange acts through its own operator identity: holders approve the
// operator on the ownership side, buyers approve it on the value side, and
// a purchase spends both approvals in one transaction.
type ExchangeService struct {
	operatorID uuid.UUID
	adminID    uuid.UUID
	assetRepo  asset.AssetRepository
	ownership  ledger.OwnershipLedger
	value      ledger.ValueLedger
	txScope    TransactionScope

	mu sync.Mutex
}

// NewExchangeService creates a new ExchangeService
func NewExchangeService(
	operatorID, adminID uuid.UUID,
	assetRepo asset.AssetRepository,
	ownership ledger.OwnershipLedger,
	value ledger.ValueLedger,
	txScope TransactionScope,
) *ExchangeService {
	return &ExchangeService{
		operatorID: operatorID,
		adminID:    adminID,
		assetRepo:  assetRepo,
		ownership:  ownership,
		value:      value,
		txScope:    txScope,
	}
}

// OperatorID returns the identity the exchange trades under.
func (s *ExchangeService) OperatorID() uuid.UUID {
	return s.operatorID
}

// Buy purchases one asset for the buyer at the asset's reserve amount. The
// reserve moves from the buyer to the current holder and the ownership token
// moves to the buyer, atomically.
func (s *ExchangeService) Buy(ctx context.Context, buyer uuid.UUID, assetNumber uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartServiceSpan(ctx, "exchange", "buy")
	defer span.End()
	telemetry.SetAttribute(span, "asset_number", assetNumber)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.buyOne(ctx, repos, buyer, assetNumber)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("asset purchased",
		zap.Uint64("asset_number", assetNumber),
		zap.String("buyer", buyer.String()),
	)
	return nil
}

// BatchBuy purchases several assets for the buyer in one transaction,
// processed in the order given. The first failure rolls back every purchase
// in the batch.
func (s *ExchangeService) BatchBuy(ctx context.Context, buyer uuid.UUID, assetNumbers []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartServiceSpan(ctx, "exchange", "batch_buy")
	defer span.End()
	telemetry.SetAttribute(span, "batch_size", len(assetNumbers))

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, assetNumber := range assetNumbers {
			if err := s.buyOne(ctx, repos, buyer, assetNumber); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.L(ctx).Info("batch purchase completed",
		zap.Int("batch_size", len(assetNumbers)),
		zap.String("buyer", buyer.String()),
	)
	return nil
}

// buyOne settles a single purchase inside an already-open transaction.
func (s *ExchangeService) buyOne(ctx context.Context, repos TransactionalRepositories, buyer uuid.UUID, assetNumber uint64) error {
	record, err := repos.Assets().FindByAssetNumber(ctx, assetNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvalidAsset
		}
		return err
	}

	reserve, err := record.ReserveAmount()
	if err != nil {
		return err
	}

	holder, err := repos.Ownership().OwnerOf(ctx, assetNumber)
	if err != nil {
		return err
	}

	approved, err := repos.Ownership().ApprovedOperator(ctx, assetNumber)
	if err != nil {
		return err
	}
	if approved != s.operatorID {
		return shared.ErrNotAuthorized
	}

	if err := repos.Value().TransferFrom(ctx, s.operatorID, buyer, holder, reserve); err != nil {
		return err
	}
	return repos.Ownership().Transfer(ctx, s.operatorID, assetNumber, buyer)
}

// Disburse returns the net amount payable to the original client for the
// asset. It is a read; the actual payout happens off-path.
func (s *ExchangeService) Disburse(ctx context.Context, assetNumber uint64) (int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "exchange", "disburse")
	defer span.End()
	telemetry.SetAttribute(span, "asset_number", assetNumber)

	record, err := s.assetRepo.FindByAssetNumber(ctx, assetNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.ErrInvalidAsset
		}
		telemetry.RecordError(span, err)
		return 0, err
	}

	net, err := record.NetAmountPayable()
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	return net, nil
}

// ApproveSpending sets the buyer's value-ledger allowance toward the
// exchange operator.
func (s *ExchangeService) ApproveSpending(ctx context.Context, buyer uuid.UUID, amount int64) error {
	if amount < 0 {
		return shared.ErrInvalidInput
	}
	return s.value.Approve(ctx, buyer, s.operatorID, amount)
}

// Allowance returns the buyer's remaining allowance toward the operator.
func (s *ExchangeService) Allowance(ctx context.Context, buyer uuid.UUID) (int64, error) {
	return s.value.Allowance(ctx, buyer, s.operatorID)
}

// FundAccount credits an account on the value ledger. Administrator only.
func (s *ExchangeService) FundAccount(ctx context.Context, caller, account uuid.UUID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.adminID {
		return shared.ErrNotAuthorized
	}
	if account == uuid.Nil {
		return shared.ErrInvalidRecipient
	}
	if amount <= 0 {
		return shared.ErrInvalidInput
	}
	return s.value.Issue(ctx, account, amount)
}

// Balance returns the value-ledger balance of an account.
func (s *ExchangeService) Balance(ctx context.Context, account uuid.UUID) (int64, error) {
	return s.value.BalanceOf(ctx, account)
}
