package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/domain/ledger"
	"github.com/factoring/backend/internal/domain/shared"
	"github.com/factoring/backend/internal/infrastructure/logger"
	"github.com/factoring/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetRegistryService binds asset record creation to ownership-ledger
// minting and gates every mutation behind the designated administrator.
// Mutations are serialized through a single mutex so that the registry keeps
// the strict total order the asset lifecycle rules assume.
type AssetRegistryService struct {
	adminID    uuid.UUID
	assetRepo  asset.AssetRepository
	configRepo asset.RegistryConfigRepository
	ownership  ledger.OwnershipLedger
	txScope    TransactionScope

	mu sync.Mutex
}

// NewAssetRegistryService creates a new AssetRegistryService
func NewAssetRegistryService(
	adminID uuid.UUID,
	assetRepo asset.AssetRepository,
	configRepo asset.RegistryConfigRepository,
	ownership ledger.OwnershipLedger,
	txScope TransactionScope,
) *AssetRegistryService {
	return &AssetRegistryService{
		adminID:    adminID,
		assetRepo:  assetRepo,
		configRepo: configRepo,
		ownership:  ownership,
		txScope:    txScope,
	}
}

// requireAdmin rejects callers other than the designated administrator.
func (s *AssetRegistryService) requireAdmin(caller uuid.UUID) error {
	if caller != s.adminID {
		return shared.ErrNotAuthorized
	}
	return nil
}

// CreateAsset creates an asset record and mints its ownership token to the
// recipient as one atomic unit: if the mint fails the record insert is
// rolled back.
func (s *AssetRegistryService) CreateAsset(
	ctx context.Context,
	caller, recipient uuid.UUID,
	assetNumber uint64,
	terms asset.InitialTerms,
) (*asset.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartServiceSpan(ctx, "registry", "create_asset")
	defer span.End()
	telemetry.SetAttribute(span, "asset_number", assetNumber)

	if err := s.requireAdmin(caller); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if recipient == uuid.Nil {
		telemetry.RecordError(span, shared.ErrInvalidRecipient)
		return nil, shared.ErrInvalidRecipient
	}

	record, err := asset.NewAssetRecord(assetNumber, terms)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Assets().Create(ctx, record); err != nil {
			return err
		}
		return repos.Ownership().Mint(ctx, assetNumber, recipient)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("asset created",
		zap.Uint64("asset_number", assetNumber),
		zap.String("recipient", recipient.String()),
	)
	return record, nil
}

// SetSettlementTerms overwrites the mutable settlement inputs of an open
// asset record. Administrator only.
func (s *AssetRegistryService) SetSettlementTerms(
	ctx context.Context,
	caller uuid.UUID,
	assetNumber uint64,
	buyerAmountReceived, supplierAmountReceived int64,
	paymentReceiptDate time.Time,
) (*asset.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartServiceSpan(ctx, "registry", "set_settlement_terms")
	defer span.End()
	telemetry.SetAttribute(span, "asset_number", assetNumber)

	if err := s.requireAdmin(caller); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, err := s.assetRepo.FindByAssetNumber(ctx, assetNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := record.SetSettlementTerms(buyerAmountReceived, supplierAmountReceived, paymentReceiptDate); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save settlement terms: %w", err)
	}
	return record, nil
}

// SettleAsset records the reserve payment closure fields and moves the
// record to its terminal status. Administrator only; irreversible.
func (s *AssetRegistryService) SettleAsset(
	ctx context.Context,
	caller uuid.UUID,
	assetNumber uint64,
	supplierAmountReserved int64,
	reservePaymentTransactionID string,
	paymentReserveDate time.Time,
) (*asset.AssetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartServiceSpan(ctx, "registry", "settle_asset")
	defer span.End()
	telemetry.SetAttribute(span, "asset_number", assetNumber)

	if err := s.requireAdmin(caller); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, err := s.assetRepo.FindByAssetNumber(ctx, assetNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := record.Settle(supplierAmountReserved, reservePaymentTransactionID, paymentReserveDate); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save settled record: %w", err)
	}

	logger.L(ctx).Info("asset settled",
		zap.Uint64("asset_number", assetNumber),
		zap.String("reserve_payment_transaction_id", reservePaymentTransactionID),
	)
	return record, nil
}

// ApproveTransfer lets the current holder authorize an operator for the
// asset's ownership token. Callable by any holder, not only the admin.
func (s *AssetRegistryService) ApproveTransfer(ctx context.Context, caller uuid.UUID, assetNumber uint64, operator uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartServiceSpan(ctx, "registry", "approve_transfer")
	defer span.End()

	if _, err := s.assetRepo.FindByAssetNumber(ctx, assetNumber); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if err := s.ownership.Approve(ctx, caller, assetNumber, operator); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// GetAsset returns the asset record for an asset number.
func (s *AssetRegistryService) GetAsset(ctx context.Context, assetNumber uint64) (*asset.AssetRecord, error) {
	return s.assetRepo.FindByAssetNumber(ctx, assetNumber)
}

// ListAssets returns a page of asset records.
func (s *AssetRegistryService) ListAssets(ctx context.Context, filter shared.Filter) (*shared.Paginated[asset.AssetRecord], error) {
	records, err := s.assetRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.assetRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(records, total, filter.Page, filter.Limit())
	return &page, nil
}

// OwnerOf returns the current holder of the asset's ownership token.
func (s *AssetRegistryService) OwnerOf(ctx context.Context, assetNumber uint64) (uuid.UUID, error) {
	return s.ownership.OwnerOf(ctx, assetNumber)
}

// AssetFigures bundles every derived financial quantity of one record.
type AssetFigures struct {
	InvoiceTenure       int64 `json:"invoice_tenure"`
	FinanceTenure       int64 `json:"finance_tenure"`
	LateDays            int64 `json:"late_days"`
	AdvancedAmount      int64 `json:"advanced_amount"`
	ReserveAmount       int64 `json:"reserve_amount"`
	FactoringAmount     int64 `json:"factoring_amount"`
	DiscountAmount      int64 `json:"discount_amount"`
	LateAmount          int64 `json:"late_amount"`
	TotalFees           int64 `json:"total_fees"`
	TotalAmountReceived int64 `json:"total_amount_received"`
	NetAmountPayable    int64 `json:"net_amount_payable"`
}

// GetFigures fetches the record and derives all financial figures from it.
func (s *AssetRegistryService) GetFigures(ctx context.Context, assetNumber uint64) (*AssetFigures, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "registry", "get_figures")
	defer span.End()
	telemetry.SetAttribute(span, "asset_number", assetNumber)

	record, err := s.assetRepo.FindByAssetNumber(ctx, assetNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	figures := &AssetFigures{
		InvoiceTenure: record.InvoiceTenure(),
		FinanceTenure: record.FinanceTenure(),
		LateDays:      record.LateDays(),
	}
	if figures.AdvancedAmount, err = record.AdvancedAmount(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.ReserveAmount, err = record.ReserveAmount(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.FactoringAmount, err = record.FactoringAmount(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.DiscountAmount, err = record.DiscountAmount(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.LateAmount, err = record.LateAmount(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.TotalFees, err = record.TotalFees(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.TotalAmountReceived, err = record.TotalAmountReceived(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if figures.NetAmountPayable, err = record.NetAmountPayable(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return figures, nil
}

// TokenURI composes the metadata URI for an asset from the configured base.
func (s *AssetRegistryService) TokenURI(ctx context.Context, assetNumber uint64) (string, error) {
	if _, err := s.assetRepo.FindByAssetNumber(ctx, assetNumber); err != nil {
		return "", err
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", cfg.BaseURI, assetNumber), nil
}

// SetBaseURI updates the metadata base URI. Administrator only.
func (s *AssetRegistryService) SetBaseURI(ctx context.Context, caller uuid.UUID, baseURI string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return err
	}
	cfg.BaseURI = baseURI
	return s.configRepo.Save(ctx, cfg)
}

// SetFormulasVersion updates the formula engine version tag. Administrator only.
func (s *AssetRegistryService) SetFormulasVersion(ctx context.Context, caller uuid.UUID, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return err
	}
	cfg.FormulasVersion = version
	return s.configRepo.Save(ctx, cfg)
}
