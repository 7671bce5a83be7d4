package ledger

import (
	"context"

	"github.com/google/uuid"
)

// OwnershipLedger is the ownership registry for asset tokens. It is the sole
// authority over the holder-to-asset-number association; the asset record
// store never stores a holder. Token identifiers are asset numbers.
type OwnershipLedger interface {
	// Mint creates a new token owned by owner. A duplicate token id fails
	// with ErrAlreadyExists; a nil owner fails with ErrInvalidRecipient.
	Mint(ctx context.Context, tokenID uint64, owner uuid.UUID) error

	// OwnerOf returns the current holder of the token
	OwnerOf(ctx context.Context, tokenID uint64) (uuid.UUID, error)

	// Approve authorizes an operator to transfer the token on the holder's
	// behalf. The caller must be the current holder.
	Approve(ctx context.Context, caller uuid.UUID, tokenID uint64, operator uuid.UUID) error

	// ApprovedOperator returns the operator approved for the token, or
	// uuid.Nil when none is set
	ApprovedOperator(ctx context.Context, tokenID uint64) (uuid.UUID, error)

	// Transfer moves the token to a new holder. The caller must be the
	// current holder or the approved operator. Transfers to a nil identity
	// fail with ErrInvalidRecipient; transfers to an identity without a
	// ledger account fail with ErrTransferRejected.
	Transfer(ctx context.Context, caller uuid.UUID, tokenID uint64, to uuid.UUID) error

	// BalanceOf returns the number of tokens held by owner
	BalanceOf(ctx context.Context, owner uuid.UUID) (int64, error)

	// TotalSupply returns the number of minted tokens
	TotalSupply(ctx context.Context) (int64, error)

	// TokenByIndex enumerates all tokens in minting order
	TokenByIndex(ctx context.Context, index int64) (uint64, error)

	// TokenOfOwnerByIndex enumerates the tokens of one holder
	TokenOfOwnerByIndex(ctx context.Context, owner uuid.UUID, index int64) (uint64, error)
}
