package models

import (
	"time"

	"github.com/factoring/backend/internal/domain/asset"
)

// AssetRecordModel is the persistence model for the AssetRecord aggregate root.
// Monetary amounts and percentages are stored as fixed-point integers scaled
// to hundredths, exactly as the domain holds them.
type AssetRecordModel struct {
	AggregateModel
	AssetNumber uint64 `gorm:"not null;uniqueIndex:idx_asset_records_asset_number"`
	Status      string `gorm:"type:varchar(16);not null;index"`

	FactoringFeeRate  int64 `gorm:"not null"`
	DiscountFeeRate   int64 `gorm:"not null"`
	LateFeeRate       int64 `gorm:"not null"`
	BankChargesFee    int64 `gorm:"not null"`
	AdditionalFee     int64 `gorm:"not null"`
	GracePeriodDays   int64 `gorm:"not null"`
	AdvanceRatio      int64 `gorm:"not null"`
	DueDate           time.Time
	InvoiceDate       time.Time
	FundsAdvancedDate time.Time
	InvoiceAmount     int64 `gorm:"not null"`
	InvoiceLimit      int64 `gorm:"not null"`

	BuyerAmountReceived         int64 `gorm:"not null;default:0"`
	SupplierAmountReceived      int64 `gorm:"not null;default:0"`
	PaymentReceiptDate          *time.Time
	SupplierAmountReserved      int64 `gorm:"not null;default:0"`
	PaymentReserveDate          *time.Time
	ReservePaymentTransactionID string `gorm:"type:varchar(128)"`
}

// TableName returns the table name for GORM
func (AssetRecordModel) TableName() string {
	return "asset_records"
}

// ToDomain converts the persistence model to a domain AssetRecord.
func (m *AssetRecordModel) ToDomain() *asset.AssetRecord {
	record := &asset.AssetRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AssetNumber:       m.AssetNumber,
		Status:            asset.AssetStatus(m.Status),
		InitialTerms: asset.InitialTerms{
			FactoringFeeRate:  m.FactoringFeeRate,
			DiscountFeeRate:   m.DiscountFeeRate,
			LateFeeRate:       m.LateFeeRate,
			BankChargesFee:    m.BankChargesFee,
			AdditionalFee:     m.AdditionalFee,
			GracePeriodDays:   m.GracePeriodDays,
			AdvanceRatio:      m.AdvanceRatio,
			DueDate:           m.DueDate,
			InvoiceDate:       m.InvoiceDate,
			FundsAdvancedDate: m.FundsAdvancedDate,
			InvoiceAmount:     m.InvoiceAmount,
			InvoiceLimit:      m.InvoiceLimit,
		},
		SettlementTerms: asset.SettlementTerms{
			BuyerAmountReceived:         m.BuyerAmountReceived,
			SupplierAmountReceived:      m.SupplierAmountReceived,
			SupplierAmountReserved:      m.SupplierAmountReserved,
			ReservePaymentTransactionID: m.ReservePaymentTransactionID,
		},
	}
	if m.PaymentReceiptDate != nil {
		record.SettlementTerms.PaymentReceiptDate = *m.PaymentReceiptDate
	}
	if m.PaymentReserveDate != nil {
		record.SettlementTerms.PaymentReserveDate = *m.PaymentReserveDate
	}
	return record
}

// FromDomain populates the persistence model from a domain AssetRecord.
func (m *AssetRecordModel) FromDomain(record *asset.AssetRecord) {
	m.FromDomainAggregateRoot(record.BaseAggregateRoot)
	m.AssetNumber = record.AssetNumber
	m.Status = string(record.Status)

	m.FactoringFeeRate = record.InitialTerms.FactoringFeeRate
	m.DiscountFeeRate = record.InitialTerms.DiscountFeeRate
	m.LateFeeRate = record.InitialTerms.LateFeeRate
	m.BankChargesFee = record.InitialTerms.BankChargesFee
	m.AdditionalFee = record.InitialTerms.AdditionalFee
	m.GracePeriodDays = record.InitialTerms.GracePeriodDays
	m.AdvanceRatio = record.InitialTerms.AdvanceRatio
	m.DueDate = record.InitialTerms.DueDate
	m.InvoiceDate = record.InitialTerms.InvoiceDate
	m.FundsAdvancedDate = record.InitialTerms.FundsAdvancedDate
	m.InvoiceAmount = record.InitialTerms.InvoiceAmount
	m.InvoiceLimit = record.InitialTerms.InvoiceLimit

	m.BuyerAmountReceived = record.SettlementTerms.BuyerAmountReceived
	m.SupplierAmountReceived = record.SettlementTerms.SupplierAmountReceived
	m.SupplierAmountReserved = record.SettlementTerms.SupplierAmountReserved
	m.ReservePaymentTransactionID = record.SettlementTerms.ReservePaymentTransactionID

	m.PaymentReceiptDate = nil
	if !record.SettlementTerms.PaymentReceiptDate.IsZero() {
		d := record.SettlementTerms.PaymentReceiptDate
		m.PaymentReceiptDate = &d
	}
	m.PaymentReserveDate = nil
	if !record.SettlementTerms.PaymentReserveDate.IsZero() {
		d := record.SettlementTerms.PaymentReserveDate
		m.PaymentReserveDate = &d
	}
}
