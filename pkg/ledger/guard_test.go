package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/pkg/db"
)

func TestGuard_Delete(t *testing.T) {
	conn := setupLedgerDB(t)
	store := db.NewStore(conn)
	guard := NewGuard(store)

	visa, err := InsertEntity(store, Account{Name: "Visa"})
	require.NoError(t, err)
	cash, err := InsertEntity(store, Account{Name: "Cash"})
	require.NoError(t, err)

	txn := ExpenseTransaction{
		Receipt:  Receipt{Total: money("7.00"), Date: "2024-03-01", Location: "Store"},
		Expenses: []Expense{{Item: "soap", Amount: money("7.00")}},
		Splits:   []LedgerSplit{{Amount: money("7.00"), AccountID: visa}},
	}
	require.NoError(t, txn.Execute(conn))

	t.Run("referenced account is not deleted", func(t *testing.T) {
		err := guard.Delete("accounts", visa)
		assert.ErrorIs(t, err, ErrRowReferenced)
		assert.Equal(t, 2, countRows(t, conn, "accounts"))
	})

	t.Run("referenced receipt is not deleted", func(t *testing.T) {
		err := guard.Delete("receipts", 1)
		assert.ErrorIs(t, err, ErrRowReferenced)
		assert.Equal(t, 1, countRows(t, conn, "receipts"))
	})

	t.Run("unreferenced account is deleted", func(t *testing.T) {
		require.NoError(t, guard.Delete("accounts", cash))
		assert.Equal(t, 1, countRows(t, conn, "accounts"))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		require.NoError(t, guard.Delete("accounts", 999))
		assert.Equal(t, 1, countRows(t, conn, "accounts"))
	})

	t.Run("leaf table rows delete directly", func(t *testing.T) {
		require.NoError(t, guard.Delete("expenses", 1))
		require.NoError(t, guard.Delete("ledger", 1))
		require.NoError(t, guard.Delete("receipts", 1))
		assert.Zero(t, countRows(t, conn, "receipts"))
	})
}

func TestGuard_SkipsColumnsAbsentFromVariant(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "variant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.BuildSchema(conn, db.SchemaOptions{NoCategoryTable: true}))

	store := db.NewStore(conn)
	guard := NewGuard(store)

	// With expenses.category_id absent the categories reference check must be
	// skipped rather than querying a missing column on a missing table pair.
	visa, err := InsertEntity(store, Account{Name: "Visa"})
	require.NoError(t, err)
	require.NoError(t, guard.Delete("accounts", visa))
	assert.Zero(t, countRows(t, conn, "accounts"))
}
