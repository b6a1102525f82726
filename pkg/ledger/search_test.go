package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/pkg/db"
)

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func seedExpenses(t *testing.T, conn *db.Connection) {
	t.Helper()

	store := db.NewStore(conn)
	visa, err := InsertEntity(store, Account{Name: "Visa"})
	require.NoError(t, err)

	for _, txn := range []ExpenseTransaction{
		{
			Receipt: Receipt{Total: money("6.00"), Date: today(), Location: "Market"},
			Expenses: []Expense{
				{Item: "bread", Amount: money("2.50")},
				{Item: "milk", Amount: money("3.50")},
			},
			Splits: []LedgerSplit{{Amount: money("6.00"), AccountID: visa}},
		},
		{
			Receipt:  Receipt{Total: money("2.75"), Date: today(), Location: "Bakery"},
			Expenses: []Expense{{Item: "bread", Amount: money("2.75")}},
			Splits:   []LedgerSplit{{Amount: money("2.75"), AccountID: visa}},
		},
	} {
		require.NoError(t, txn.Execute(conn))
	}
}

func TestSearcher_SearchExpenses(t *testing.T) {
	conn := setupLedgerDB(t)
	seedExpenses(t, conn)
	searcher := NewSearcher(conn)

	t.Run("deduplicates repeated items to their earliest occurrence", func(t *testing.T) {
		result, err := searcher.SearchExpenses("", 365)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Len())
		assert.ElementsMatch(t, []string{"bread", "milk"}, result.Strings("item"))
	})

	t.Run("filters by item", func(t *testing.T) {
		result, err := searcher.SearchExpenses("bread", 365)
		require.NoError(t, err)

		require.Equal(t, 1, result.Len())
		assert.Equal(t, []string{"2.5"}, result.Strings("amount"))
	})

	t.Run("day window excludes old receipts", func(t *testing.T) {
		result, err := searcher.SearchExpenses("", 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Len(), 2)
	})
}

func TestSearcher_Suggestions(t *testing.T) {
	conn := setupLedgerDB(t)
	seedExpenses(t, conn)
	searcher := NewSearcher(conn)

	items, err := searcher.ExpenseItems()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bread", "milk"}, items)

	amounts, err := searcher.AmountsFor("bread")
	require.NoError(t, err)
	assert.Equal(t, []string{"2.5"}, amounts)
}

func TestSearcher_SearchCategories(t *testing.T) {
	conn := setupLedgerDB(t)
	store := db.NewStore(conn)
	searcher := NewSearcher(conn)

	groceries, err := InsertEntity(store, Category{Category: "groceries", CategoryType: "need"})
	require.NoError(t, err)
	_, err = InsertEntity(store, Category{Category: "fun", CategoryType: "want"})
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		result, err := searcher.SearchCategories()
		require.NoError(t, err)
		assert.Equal(t, 2, result.Len())
	})

	t.Run("by id", func(t *testing.T) {
		result, err := searcher.SearchCategories(groceries)
		require.NoError(t, err)
		require.Equal(t, 1, result.Len())
		assert.Equal(t, []string{"groceries"}, result.Strings("category"))
	})
}

func TestSearcher_SearchPaystubs(t *testing.T) {
	conn := setupLedgerDB(t)
	store := db.NewStore(conn)
	searcher := NewSearcher(conn)

	checking, err := InsertEntity(store, Account{Name: "Checking"})
	require.NoError(t, err)

	for _, txn := range []IncomeTransaction{
		{
			Paystub: Paystub{Total: money("1000.00"), Date: "2024-03-01", Payer: "Acme Corp"},
			Incomes: []Income{{Amount: money("1000.00")}},
			Splits:  []PaystubSplit{{Amount: money("1000.00"), AccountID: checking}},
		},
		{
			Paystub: Paystub{Total: money("50.00"), Date: "2024-03-02", Payer: "Side Gig"},
			Incomes: []Income{{Amount: money("50.00")}},
			Splits:  []PaystubSplit{{Amount: money("50.00"), AccountID: checking}},
		},
	} {
		require.NoError(t, txn.Execute(conn))
	}

	t.Run("zero filter returns everything", func(t *testing.T) {
		result, err := searcher.SearchPaystubs(PaystubFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Len())
	})

	t.Run("by payer", func(t *testing.T) {
		result, err := searcher.SearchPaystubs(PaystubFilter{Payer: "Acme Corp"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Len())
	})

	t.Run("id takes precedence over payer", func(t *testing.T) {
		result, err := searcher.SearchPaystubs(PaystubFilter{ID: 2, Payer: "Acme Corp"})
		require.NoError(t, err)
		require.Equal(t, 1, result.Len())
		assert.Equal(t, []string{"Side Gig"}, result.Strings("payer"))
	})
}

func TestCollectStats(t *testing.T) {
	conn := setupLedgerDB(t)

	t.Run("empty ledger", func(t *testing.T) {
		stats, err := CollectStats(conn)
		require.NoError(t, err)

		assert.Zero(t, stats.ReceiptCount)
		assert.Zero(t, stats.TotalSpent)
		assert.False(t, stats.LastEntry.Valid)
	})

	t.Run("after activity", func(t *testing.T) {
		seedExpenses(t, conn)

		stats, err := CollectStats(conn)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.ReceiptCount)
		assert.Equal(t, 3, stats.ExpenseCount)
		assert.Zero(t, stats.PaystubCount)
		assert.InDelta(t, 8.75, stats.TotalSpent, 0.001)
		assert.True(t, stats.LastEntry.Valid)
		assert.Equal(t, today(), stats.LastEntry.String)
	})
}
