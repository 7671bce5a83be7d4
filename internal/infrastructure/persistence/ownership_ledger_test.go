package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/factoring/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockOwnershipLedger(t *testing.T) (*GormOwnershipLedger, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormOwnershipLedger(gormDB), mock, mockDB
}

func ownershipTokenRows(tokenID uint64, owner uuid.UUID, operator *uuid.UUID, mintIndex int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"token_id", "owner_id", "approved_operator", "mint_index",
	})
	if operator != nil {
		return rows.AddRow(uuid.New(), time.Now(), time.Now(), tokenID, owner, *operator, mintIndex)
	}
	return rows.AddRow(uuid.New(), time.Now(), time.Now(), tokenID, owner, nil, mintIndex)
}

func TestGormOwnershipLedger_Mint(t *testing.T) {
	t.Run("mints a token at the next index", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		owner := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ownership_tokens"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectExec(`INSERT INTO "ownership_tokens"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := ledger.Mint(context.Background(), 42, owner)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a nil owner", func(t *testing.T) {
		ledger, _, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		err := ledger.Mint(context.Background(), 42, uuid.Nil)

		assert.Equal(t, shared.ErrInvalidRecipient, err)
	})

	t.Run("translates duplicate token ids", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ownership_tokens"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`INSERT INTO "ownership_tokens"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := ledger.Mint(context.Background(), 42, uuid.New())

		assert.Equal(t, shared.ErrAlreadyExists, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOwnershipLedger_OwnerOf(t *testing.T) {
	t.Run("returns the holder", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		owner := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(42), 1).
			WillReturnRows(ownershipTokenRows(42, owner, nil, 0))

		got, err := ledger.OwnerOf(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, owner, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for an unknown token", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(99), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := ledger.OwnerOf(context.Background(), 99)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOwnershipLedger_Approve(t *testing.T) {
	t.Run("holder approves an operator", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		owner := uuid.New()
		operator := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(42), 1).
			WillReturnRows(ownershipTokenRows(42, owner, nil, 0))
		mock.ExpectExec(`UPDATE "ownership_tokens" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := ledger.Approve(context.Background(), owner, 42, operator)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a caller that is not the holder", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		owner := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(42), 1).
			WillReturnRows(ownershipTokenRows(42, owner, nil, 0))

		err := ledger.Approve(context.Background(), uuid.New(), 42, uuid.New())

		assert.Equal(t, shared.ErrNotAuthorized, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOwnershipLedger_Transfer(t *testing.T) {
	t.Run("approved operator moves the token", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		owner := uuid.New()
		operator := uuid.New()
		buyer := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(42), 1).
			WillReturnRows(ownershipTokenRows(42, owner, &operator, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_accounts" WHERE account_id = \$1`).
			WithArgs(buyer).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "ownership_tokens" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := ledger.Transfer(context.Background(), operator, 42, buyer)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a recipient without a value account", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		owner := uuid.New()
		buyer := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(42), 1).
			WillReturnRows(ownershipTokenRows(42, owner, nil, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_accounts" WHERE account_id = \$1`).
			WithArgs(buyer).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := ledger.Transfer(context.Background(), owner, 42, buyer)

		assert.Equal(t, shared.ErrTransferRejected, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a caller with no rights on the token", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE token_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(uint64(42), 1).
			WillReturnRows(ownershipTokenRows(42, uuid.New(), nil, 0))

		err := ledger.Transfer(context.Background(), uuid.New(), 42, uuid.New())

		assert.Equal(t, shared.ErrNotAuthorized, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a nil recipient", func(t *testing.T) {
		ledger, _, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		err := ledger.Transfer(context.Background(), uuid.New(), 42, uuid.Nil)

		assert.Equal(t, shared.ErrInvalidRecipient, err)
	})
}

func TestGormOwnershipLedger_Enumeration(t *testing.T) {
	t.Run("TotalSupply counts minted tokens", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ownership_tokens"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		supply, err := ledger.TotalSupply(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(5), supply)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("TokenByIndex resolves minting order", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE mint_index = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(int64(2), 1).
			WillReturnRows(ownershipTokenRows(42, uuid.New(), nil, 2))

		tokenID, err := ledger.TokenByIndex(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, uint64(42), tokenID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("TokenByIndex past the supply is not found", func(t *testing.T) {
		ledger, mock, mockDB := newMockOwnershipLedger(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "ownership_tokens" WHERE mint_index = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(int64(9), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := ledger.TokenByIndex(context.Background(), 9)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
