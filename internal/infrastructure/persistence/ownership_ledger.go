package persistence

import (
	"context"
	"errors"

	"github.com/factoring/backend/internal/domain/ledger"
	"github.com/factoring/backend/internal/domain/shared"
	"github.com/factoring/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOwnershipLedger implements OwnershipLedger using GORM. It is the sole
// authority over who holds which asset token; the asset record table never
// stores a holder.
type GormOwnershipLedger struct {
	db *gorm.DB
}

// NewGormOwnershipLedger creates a new GormOwnershipLedger
func NewGormOwnershipLedger(db *gorm.DB) *GormOwnershipLedger {
	return &GormOwnershipLedger{db: db}
}

// Mint creates a new token owned by owner. The mint index is assigned from
// the current supply, so minting must run inside a transaction when called
// concurrently with other mints.
func (l *GormOwnershipLedger) Mint(ctx context.Context, tokenID uint64, owner uuid.UUID) error {
	if owner == uuid.Nil {
		return shared.ErrInvalidRecipient
	}

	var supply int64
	if err := l.db.WithContext(ctx).
		Model(&models.OwnershipTokenModel{}).
		Count(&supply).Error; err != nil {
		return err
	}

	token := models.OwnershipTokenModel{
		TokenID:   tokenID,
		OwnerID:   owner,
		MintIndex: supply,
	}
	token.ID = uuid.New()

	if err := l.db.WithContext(ctx).Create(&token).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// OwnerOf returns the current holder of the token
func (l *GormOwnershipLedger) OwnerOf(ctx context.Context, tokenID uint64) (uuid.UUID, error) {
	token, err := l.findToken(ctx, tokenID)
	if err != nil {
		return uuid.Nil, err
	}
	return token.OwnerID, nil
}

// Approve authorizes an operator to transfer the token on the holder's
// behalf. Passing uuid.Nil as operator clears the approval.
func (l *GormOwnershipLedger) Approve(ctx context.Context, caller uuid.UUID, tokenID uint64, operator uuid.UUID) error {
	token, err := l.findToken(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.OwnerID != caller {
		return shared.ErrNotAuthorized
	}

	var approved *uuid.UUID
	if operator != uuid.Nil {
		approved = &operator
	}
	return l.db.WithContext(ctx).
		Model(&models.OwnershipTokenModel{}).
		Where("token_id = ?", tokenID).
		Update("approved_operator", approved).Error
}

// ApprovedOperator returns the operator approved for the token, or uuid.Nil
// when none is set
func (l *GormOwnershipLedger) ApprovedOperator(ctx context.Context, tokenID uint64) (uuid.UUID, error) {
	token, err := l.findToken(ctx, tokenID)
	if err != nil {
		return uuid.Nil, err
	}
	if token.ApprovedOperator == nil {
		return uuid.Nil, nil
	}
	return *token.ApprovedOperator, nil
}

// Transfer moves the token to a new holder. The recipient must hold a value
// ledger account, otherwise the transfer is rejected. A successful transfer
// clears any operator approval.
func (l *GormOwnershipLedger) Transfer(ctx context.Context, caller uuid.UUID, tokenID uint64, to uuid.UUID) error {
	if to == uuid.Nil {
		return shared.ErrInvalidRecipient
	}

	token, err := l.findToken(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.OwnerID != caller && (token.ApprovedOperator == nil || *token.ApprovedOperator != caller) {
		return shared.ErrNotAuthorized
	}

	var accounts int64
	if err := l.db.WithContext(ctx).
		Model(&models.LedgerAccountModel{}).
		Where("account_id = ?", to).
		Count(&accounts).Error; err != nil {
		return err
	}
	if accounts == 0 {
		return shared.ErrTransferRejected
	}

	return l.db.WithContext(ctx).
		Model(&models.OwnershipTokenModel{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"owner_id":          to,
			"approved_operator": nil,
		}).Error
}

// BalanceOf returns the number of tokens held by owner
func (l *GormOwnershipLedger) BalanceOf(ctx context.Context, owner uuid.UUID) (int64, error) {
	var count int64
	if err := l.db.WithContext(ctx).
		Model(&models.OwnershipTokenModel{}).
		Where("owner_id = ?", owner).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalSupply returns the number of minted tokens
func (l *GormOwnershipLedger) TotalSupply(ctx context.Context) (int64, error) {
	var count int64
	if err := l.db.WithContext(ctx).
		Model(&models.OwnershipTokenModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TokenByIndex enumerates all tokens in minting order
func (l *GormOwnershipLedger) TokenByIndex(ctx context.Context, index int64) (uint64, error) {
	var token models.OwnershipTokenModel
	if err := l.db.WithContext(ctx).
		Where("mint_index = ?", index).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return token.TokenID, nil
}

// TokenOfOwnerByIndex enumerates the tokens of one holder in minting order
func (l *GormOwnershipLedger) TokenOfOwnerByIndex(ctx context.Context, owner uuid.UUID, index int64) (uint64, error) {
	var token models.OwnershipTokenModel
	if err := l.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("mint_index ASC").
		Offset(int(index)).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return token.TokenID, nil
}

func (l *GormOwnershipLedger) findToken(ctx context.Context, tokenID uint64) (*models.OwnershipTokenModel, error) {
	var token models.OwnershipTokenModel
	if err := l.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Ensure GormOwnershipLedger implements OwnershipLedger
var _ ledger.OwnershipLedger = (*GormOwnershipLedger)(nil)
