package asset

import (
	"time"

	"github.com/factoring/backend/internal/domain/shared"
)

// AssetStatus represents the lifecycle status of an asset record
type AssetStatus string

const (
	AssetStatusOpen    AssetStatus = "OPEN"    // settlement terms may still change
	AssetStatusSettled AssetStatus = "SETTLED" // terminal, reserve payment recorded
)

// IsValid checks if the status is a valid AssetStatus
func (s AssetStatus) IsValid() bool {
	return s == AssetStatusOpen || s == AssetStatusSettled
}

// String returns the string representation of AssetStatus
func (s AssetStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the status is terminal
func (s AssetStatus) IsTerminal() bool {
	return s == AssetStatusSettled
}

// CanUpdateSettlement returns true if settlement terms may still be written
func (s AssetStatus) CanUpdateSettlement() bool {
	return s == AssetStatusOpen
}

// AssetRecord is the aggregate root for a tokenized invoice-factoring claim.
// The asset number doubles as the ownership-ledger token identifier; the
// current holder is owned by the ownership ledger, not by this record.
type AssetRecord struct {
	shared.BaseAggregateRoot
	AssetNumber     uint64          `json:"asset_number"`
	InitialTerms    InitialTerms    `json:"initial_terms"`
	SettlementTerms SettlementTerms `json:"settlement_terms"`
	Status          AssetStatus     `json:"status"`
}

// NewAssetRecord creates an open asset record with zeroed settlement terms.
// The invoice tenure floor is the only validation performed at creation.
func NewAssetRecord(assetNumber uint64, terms InitialTerms) (*AssetRecord, error) {
	if InvoiceTenure(terms.DueDate, terms.InvoiceDate) < MinInvoiceTenureDays {
		return nil, shared.ErrTenureTooShort
	}
	return &AssetRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AssetNumber:       assetNumber,
		InitialTerms:      terms,
		SettlementTerms:   SettlementTerms{},
		Status:            AssetStatusOpen,
	}, nil
}

// IsSettled returns true once the record has reached its terminal status.
func (a *AssetRecord) IsSettled() bool {
	return a.Status.IsTerminal()
}

// SetSettlementTerms replaces the mutable settlement inputs. The three
// fields are overwritten as a unit; amounts do not accumulate across calls.
func (a *AssetRecord) SetSettlementTerms(buyerAmountReceived, supplierAmountReceived int64, paymentReceiptDate time.Time) error {
	if !a.Status.CanUpdateSettlement() {
		return shared.ErrAlreadySettled
	}
	a.SettlementTerms.BuyerAmountReceived = buyerAmountReceived
	a.SettlementTerms.SupplierAmountReceived = supplierAmountReceived
	a.SettlementTerms.PaymentReceiptDate = paymentReceiptDate
	a.Touch()
	return nil
}

// Settle records the reserve payment closure fields and moves the record to
// its terminal status. The transition is irreversible; there is no API that
// reopens a settled record.
func (a *AssetRecord) Settle(supplierAmountReserved int64, reservePaymentTransactionID string, paymentReserveDate time.Time) error {
	if !a.Status.CanUpdateSettlement() {
		return shared.ErrAlreadySettled
	}
	a.SettlementTerms.SupplierAmountReserved = supplierAmountReserved
	a.SettlementTerms.ReservePaymentTransactionID = reservePaymentTransactionID
	a.SettlementTerms.PaymentReserveDate = paymentReserveDate
	a.Status = AssetStatusSettled
	a.Touch()
	return nil
}

// InvoiceTenure returns the invoice tenure in days.
func (a *AssetRecord) InvoiceTenure() int64 {
	return InvoiceTenure(a.InitialTerms.DueDate, a.InitialTerms.InvoiceDate)
}

// LateDays returns the days past due date and grace period, 0 while unpaid.
func (a *AssetRecord) LateDays() int64 {
	return LateDays(a.SettlementTerms.PaymentReceiptDate, a.InitialTerms.DueDate, a.InitialTerms.GracePeriodDays)
}

// FinanceTenure returns the days funds were outstanding, falling back to the
// invoice tenure while the payment receipt date is unset.
func (a *AssetRecord) FinanceTenure() int64 {
	return FinanceTenure(
		a.SettlementTerms.PaymentReceiptDate,
		a.InitialTerms.FundsAdvancedDate,
		a.InitialTerms.DueDate,
		a.InitialTerms.InvoiceDate,
	)
}

// AdvancedAmount returns the upfront disbursement derived from the terms.
func (a *AssetRecord) AdvancedAmount() (int64, error) {
	return AdvancedAmount(a.InitialTerms.InvoiceLimit, a.InitialTerms.AdvanceRatio)
}

// ReserveAmount returns the holdback pending settlement.
func (a *AssetRecord) ReserveAmount() (int64, error) {
	advanced, err := a.AdvancedAmount()
	if err != nil {
		return 0, err
	}
	return ReserveAmount(a.InitialTerms.InvoiceAmount, advanced)
}

// FactoringAmount returns the factoring fee.
func (a *AssetRecord) FactoringAmount() (int64, error) {
	return FactoringAmount(a.InitialTerms.InvoiceAmount, a.InitialTerms.FactoringFeeRate)
}

// DiscountAmount returns the discount fee accrued to date.
func (a *AssetRecord) DiscountAmount() (int64, error) {
	advanced, err := a.AdvancedAmount()
	if err != nil {
		return 0, err
	}
	return DiscountAmount(a.InitialTerms.DiscountFeeRate, a.FinanceTenure(), a.LateDays(), advanced)
}

// LateAmount returns the late fee accrued to date.
func (a *AssetRecord) LateAmount() (int64, error) {
	advanced, err := a.AdvancedAmount()
	if err != nil {
		return 0, err
	}
	return LateAmount(a.InitialTerms.LateFeeRate, a.LateDays(), advanced)
}

// TotalFees returns the sum of all fee components.
func (a *AssetRecord) TotalFees() (int64, error) {
	factoring, err := a.FactoringAmount()
	if err != nil {
		return 0, err
	}
	discount, err := a.DiscountAmount()
	if err != nil {
		return 0, err
	}
	return TotalFees(factoring, discount, a.InitialTerms.AdditionalFee, a.InitialTerms.BankChargesFee)
}

// TotalAmountReceived returns the sum of buyer and supplier receipts.
func (a *AssetRecord) TotalAmountReceived() (int64, error) {
	return TotalAmountReceived(a.SettlementTerms.BuyerAmountReceived, a.SettlementTerms.SupplierAmountReceived)
}

// NetAmountPayable returns the figure payable to the original client. It may
// be negative, representing an amount owed back.
func (a *AssetRecord) NetAmountPayable() (int64, error) {
	received, err := a.TotalAmountReceived()
	if err != nil {
		return 0, err
	}
	advanced, err := a.AdvancedAmount()
	if err != nil {
		return 0, err
	}
	fees, err := a.TotalFees()
	if err != nil {
		return 0, err
	}
	return NetAmountPayable(received, advanced, fees)
}
