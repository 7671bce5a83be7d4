package models

import (
	"github.com/google/uuid"
)

// OwnershipTokenModel is one minted asset token. The token id is the asset
// number; mint_index preserves minting order for enumeration.
type OwnershipTokenModel struct {
	BaseModel
	TokenID          uint64     `gorm:"not null;uniqueIndex:idx_ownership_tokens_token_id"`
	OwnerID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ApprovedOperator *uuid.UUID `gorm:"type:uuid"`
	MintIndex        int64      `gorm:"not null;uniqueIndex:idx_ownership_tokens_mint_index"`
}

// TableName returns the table name for GORM
func (OwnershipTokenModel) TableName() string {
	return "ownership_tokens"
}

// LedgerAccountModel is a settlement-currency account. Balance is a
// fixed-point integer scaled to hundredths.
type LedgerAccountModel struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_accounts_account_id"`
	Balance   int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// LedgerAllowanceModel is the allowance a spender may transfer out of an
// owner's account. One row per owner and spender pair.
type LedgerAllowanceModel struct {
	BaseModel
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_allowances_pair"`
	SpenderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_allowances_pair"`
	Amount    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LedgerAllowanceModel) TableName() string {
	return "ledger_allowances"
}
