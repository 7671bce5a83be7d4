package ledger

import (
	"context"

	"github.com/google/uuid"
)

// ValueLedger is the settlement-currency ledger used to pay reserve amounts.
// Amounts are fixed-point integers scaled to hundredths, matching the asset
// domain. Holding an account on this ledger is what makes an identity able
// to receive asset transfers.
type ValueLedger interface {
	// Issue credits an account, creating it if needed. Issuance is the
	// admin-gated funding path; the ledger itself does not check callers.
	Issue(ctx context.Context, account uuid.UUID, amount int64) error

	// BalanceOf returns the current balance of an account. Unknown accounts
	// have a zero balance.
	BalanceOf(ctx context.Context, account uuid.UUID) (int64, error)

	// HasAccount reports whether the identity holds a ledger account
	HasAccount(ctx context.Context, account uuid.UUID) (bool, error)

	// Approve sets the allowance a spender may transfer out of the owner's
	// account. The allowance replaces any previous value.
	Approve(ctx context.Context, owner, spender uuid.UUID, amount int64) error

	// Allowance returns the remaining allowance from owner to spender
	Allowance(ctx context.Context, owner, spender uuid.UUID) (int64, error)

	// TransferFrom moves amount from the from account to the to account on
	// behalf of spender. It fails with ErrInsufficientAllowance when the
	// spender's allowance does not cover the amount and with
	// ErrInsufficientBalance when the from account's balance does not.
	// The allowance is decremented by the transferred amount.
	TransferFrom(ctx context.Context, spender, from, to uuid.UUID, amount int64) error
}
