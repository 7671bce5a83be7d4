package asset

import (
	"time"
)

// All monetary amounts and percentage rates in this package are fixed-point
// integers scaled to hundredths: 1000000 represents 10000.00 and a rate of
// 850 represents 8.50%. Calendar fields carry day granularity; time-of-day
// components are ignored by the tenure arithmetic.

// InitialTerms holds the origination terms of a factored invoice.
// They are immutable once the asset record is created.
type InitialTerms struct {
	FactoringFeeRate int64 // percentage, hundredths (227 = 2.27%)
	DiscountFeeRate  int64 // percentage, hundredths
	LateFeeRate      int64 // percentage, hundredths
	BankChargesFee   int64 // flat amount, hundredths
	AdditionalFee    int64 // flat amount, hundredths
	GracePeriodDays  int64
	AdvanceRatio     int64 // percentage, hundredths (8000 = 80.00%)

	DueDate           time.Time
	InvoiceDate       time.Time
	FundsAdvancedDate time.Time

	InvoiceAmount int64 // hundredths
	InvoiceLimit  int64 // hundredths
}

// SettlementTerms holds the mutable settlement data of an asset record.
// The first three fields may be rewritten any number of times while the
// asset is open; the closure fields are written exactly once, by Settle.
type SettlementTerms struct {
	PaymentReceiptDate     time.Time // zero value = payment not yet received
	BuyerAmountReceived    int64
	SupplierAmountReceived int64

	PaymentReserveDate          time.Time
	SupplierAmountReserved      int64
	ReservePaymentTransactionID string
}

// HasPaymentReceipt reports whether a payment receipt date has been recorded.
func (t SettlementTerms) HasPaymentReceipt() bool {
	return !t.PaymentReceiptDate.IsZero()
}
