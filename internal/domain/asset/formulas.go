package asset

import (
	"math"
	"time"

	"github.com/factoring/backend/internal/domain/shared"
)

// The formula engine. Every function is pure and total over non-negative,
// well-formed inputs; the only failure mode is arithmetic overflow, which is
// detected and reported instead of wrapping. All division truncates toward
// zero so that results are reproducible bit-for-bit.

const (
	// percentDivisor converts a product of a hundredths-scaled amount and a
	// hundredths-scaled percentage back to a hundredths-scaled amount.
	percentDivisor = 10000

	// daysPerYear is the day-count convention for the linear fee formulas.
	daysPerYear = 365

	secondsPerDay = 86400

	// MinInvoiceTenureDays is the floor enforced at asset creation.
	MinInvoiceTenureDays = 20
)

// daysBetween returns the whole number of days from b to a, truncated.
func daysBetween(a, b time.Time) int64 {
	return (a.Unix() - b.Unix()) / secondsPerDay
}

// InvoiceTenure returns the invoice tenure in days.
func InvoiceTenure(dueDate, invoiceDate time.Time) int64 {
	return daysBetween(dueDate, invoiceDate)
}

// LateDays returns the number of days the payment arrived past the due date
// and grace period. It returns 0 when the payment receipt date is unset or
// when the payment arrived within the grace period.
func LateDays(paymentReceiptDate, dueDate time.Time, gracePeriodDays int64) int64 {
	if paymentReceiptDate.IsZero() {
		return 0
	}
	late := daysBetween(paymentReceiptDate, dueDate) - gracePeriodDays
	if late < 0 {
		return 0
	}
	return late
}

// FinanceTenure returns the number of days funds were outstanding. While the
// payment receipt date is unset it falls back to the full invoice tenure,
// treating the invoice as if it were paid exactly on its due date.
func FinanceTenure(paymentReceiptDate, fundsAdvancedDate, dueDate, invoiceDate time.Time) int64 {
	if paymentReceiptDate.IsZero() {
		return InvoiceTenure(dueDate, invoiceDate)
	}
	return daysBetween(paymentReceiptDate, fundsAdvancedDate)
}

// AdvancedAmount returns the amount disbursed upfront:
// invoiceLimit x advanceRatio%.
func AdvancedAmount(invoiceLimit, advanceRatio int64) (int64, error) {
	product, err := mulInt64(invoiceLimit, advanceRatio)
	if err != nil {
		return 0, err
	}
	return product / percentDivisor, nil
}

// ReserveAmount returns invoiceAmount - advancedAmount. The result is not
// clamped; pathological inputs may produce a negative reserve.
func ReserveAmount(invoiceAmount, advancedAmount int64) (int64, error) {
	return subInt64(invoiceAmount, advancedAmount)
}

// FactoringAmount returns invoiceAmount x factoringFeeRate%.
func FactoringAmount(invoiceAmount, factoringFeeRate int64) (int64, error) {
	product, err := mulInt64(invoiceAmount, factoringFeeRate)
	if err != nil {
		return 0, err
	}
	return product / percentDivisor, nil
}

// DiscountAmount returns the linear discount fee accrued over the finance
// tenure plus late days: advancedAmount x discountFeeRate% x days / 365.
func DiscountAmount(discountFeeRate, financeTenure, lateDays, advancedAmount int64) (int64, error) {
	days, err := addInt64(financeTenure, lateDays)
	if err != nil {
		return 0, err
	}
	product, err := mulInt64(advancedAmount, discountFeeRate)
	if err != nil {
		return 0, err
	}
	product, err = mulInt64(product, days)
	if err != nil {
		return 0, err
	}
	return product / percentDivisor / daysPerYear, nil
}

// LateAmount returns the linear late fee:
// advancedAmount x lateFeeRate% x lateDays / 365.
func LateAmount(lateFeeRate, lateDays, advancedAmount int64) (int64, error) {
	product, err := mulInt64(advancedAmount, lateFeeRate)
	if err != nil {
		return 0, err
	}
	product, err = mulInt64(product, lateDays)
	if err != nil {
		return 0, err
	}
	return product / percentDivisor / daysPerYear, nil
}

// TotalFees returns the sum of the four fee components.
func TotalFees(factoringAmount, discountAmount, additionalFee, bankChargesFee int64) (int64, error) {
	total, err := addInt64(factoringAmount, discountAmount)
	if err != nil {
		return 0, err
	}
	total, err = addInt64(total, additionalFee)
	if err != nil {
		return 0, err
	}
	return addInt64(total, bankChargesFee)
}

// TotalAmountReceived returns buyerAmountReceived + supplierAmountReceived.
func TotalAmountReceived(buyerAmountReceived, supplierAmountReceived int64) (int64, error) {
	return addInt64(buyerAmountReceived, supplierAmountReceived)
}

// NetAmountPayable returns totalAmountReceived - advancedAmount - totalFees.
// A negative result represents an amount owed back by the client and is not
// clamped.
func NetAmountPayable(totalAmountReceived, advancedAmount, totalFees int64) (int64, error) {
	net, err := subInt64(totalAmountReceived, advancedAmount)
	if err != nil {
		return 0, err
	}
	return subInt64(net, totalFees)
}

// addInt64 returns a + b or ErrArithmeticOverflow.
func addInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, shared.ErrArithmeticOverflow
	}
	return sum, nil
}

// subInt64 returns a - b or ErrArithmeticOverflow.
func subInt64(a, b int64) (int64, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, shared.ErrArithmeticOverflow
	}
	return diff, nil
}

// mulInt64 returns a * b or ErrArithmeticOverflow.
func mulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	// MinInt64 * -1 wraps to MinInt64, which the division check below
	// cannot catch because MinInt64 / -1 == MinInt64.
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, shared.ErrArithmeticOverflow
	}
	product := a * b
	if product/b != a {
		return 0, shared.ErrArithmeticOverflow
	}
	return product, nil
}
