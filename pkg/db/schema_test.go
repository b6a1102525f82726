package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary database file and opens a connection.
func setupTestDB(t *testing.T) *Connection {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// statementFor finds the CREATE statement for one table, or "" if the table
// is not part of the schema.
func statementFor(stmts []string, table string) string {
	prefix := "CREATE TABLE IF NOT EXISTS " + table + " ("
	for _, stmt := range stmts {
		if strings.HasPrefix(stmt, prefix) {
			return stmt
		}
	}
	return ""
}

func TestStatements_FullSchema(t *testing.T) {
	stmts := Statements()

	for _, table := range []string{"accounts", "receipts", "ledger", "paystubs", "paystub_ledger", "categories", "expenses", "incomes"} {
		assert.NotEmpty(t, statementFor(stmts, table), "missing table %s", table)
	}

	expenses := statementFor(stmts, "expenses")
	assert.Contains(t, expenses, "category_id INTEGER")
	assert.Contains(t, expenses, "FOREIGN KEY (category_id) REFERENCES categories(id)")
	assert.Contains(t, expenses, "details TEXT")

	assert.Contains(t, statementFor(stmts, "categories"), "category_type")
	assert.Contains(t, statementFor(stmts, "incomes"), "details TEXT")
}

func TestStatements_CategoryExclusionAxes(t *testing.T) {
	defaultExpenses := statementFor(Statements(), "expenses")

	t.Run("category_id alone drops column and foreign key, keeps table", func(t *testing.T) {
		stmts := Statements(FragmentCategoryID)

		expenses := statementFor(stmts, "expenses")
		assert.NotContains(t, expenses, "category_id")
		assert.NotEmpty(t, statementFor(stmts, "categories"))
	})

	t.Run("category_table alone keeps the expenses definition intact", func(t *testing.T) {
		stmts := Statements(FragmentCategoryTable)

		assert.Empty(t, statementFor(stmts, "categories"))
		assert.Equal(t, defaultExpenses, statementFor(stmts, "expenses"))
	})

	t.Run("both drop table, column, and foreign key", func(t *testing.T) {
		stmts := Statements(FragmentCategoryTable, FragmentCategoryID)

		assert.Empty(t, statementFor(stmts, "categories"))
		assert.NotContains(t, statementFor(stmts, "expenses"), "category_id")
	})

	t.Run("neither keeps everything", func(t *testing.T) {
		stmts := Statements()

		assert.NotEmpty(t, statementFor(stmts, "categories"))
		assert.Contains(t, statementFor(stmts, "expenses"), "FOREIGN KEY (category_id)")
	})
}

func TestStatements_DetailExclusions(t *testing.T) {
	t.Run("expense details", func(t *testing.T) {
		expenses := statementFor(Statements(FragmentExpenseDetails), "expenses")
		assert.NotContains(t, expenses, "details")
	})

	t.Run("income details", func(t *testing.T) {
		incomes := statementFor(Statements(FragmentIncomeDetails), "incomes")
		assert.NotContains(t, incomes, "details")
	})

	t.Run("category type", func(t *testing.T) {
		categories := statementFor(Statements(FragmentCategoryType), "categories")
		assert.NotContains(t, categories, "category_type")
	})
}

func TestSchemaOptions_Exclusions(t *testing.T) {
	opts := SchemaOptions{NoCategoryTable: true, NoIncomeDetails: true}

	exclusions := opts.Exclusions()

	// NoCategoryTable expands to both the table and the dependent column.
	assert.ElementsMatch(t, []string{FragmentCategoryTable, FragmentCategoryID, FragmentIncomeDetails}, exclusions)
}

func TestBuildSchema(t *testing.T) {
	t.Run("creates all tables", func(t *testing.T) {
		conn := setupTestDB(t)
		require.NoError(t, BuildSchema(conn, SchemaOptions{}))

		tables, err := NewStore(conn).ListTables()
		require.NoError(t, err)
		assert.Equal(t, []string{"accounts", "categories", "expenses", "incomes", "ledger", "paystub_ledger", "paystubs", "receipts"}, tables)
	})

	t.Run("is idempotent", func(t *testing.T) {
		conn := setupTestDB(t)
		require.NoError(t, BuildSchema(conn, SchemaOptions{}))
		require.NoError(t, BuildSchema(conn, SchemaOptions{}))
	})

	t.Run("honors exclusions", func(t *testing.T) {
		conn := setupTestDB(t)
		require.NoError(t, BuildSchema(conn, SchemaOptions{NoCategoryTable: true, NoExpenseDetails: true}))

		tables, err := NewStore(conn).ListTables()
		require.NoError(t, err)
		assert.NotContains(t, tables, "categories")

		var count int
		err = conn.QueryRow("SELECT COUNT(*) FROM pragma_table_info('expenses') WHERE name IN ('category_id', 'details')").Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestLoadSchemaOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeFile(t, path, "exclude:\n  - category_table\n  - income_details\n")

	opts, err := LoadSchemaOptions(path)
	require.NoError(t, err)
	assert.True(t, opts.NoCategoryTable)
	assert.True(t, opts.NoIncomeDetails)
	assert.False(t, opts.NoCategoryType)

	t.Run("rejects unknown exclusion", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, bad, "exclude:\n  - no_such_fragment\n")

		_, err := LoadSchemaOptions(bad)
		assert.Error(t, err)
	})
}
