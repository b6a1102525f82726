// Package db provides SQLite storage for the ledger: connection management,
// the schema-variant builder, and generic record access.
package db

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fragment names accepted in a schema exclusion set. The four user-facing
// options in SchemaOptions expand to these; the lower-level Statements
// function also accepts individual expense-column fragments such as
// "category_id" directly.
const (
	FragmentCategoryTable  = "category_table"
	FragmentCategoryType   = "category_type"
	FragmentCategoryID     = "category_id"
	FragmentExpenseDetails = "details"
	FragmentIncomeDetails  = "income_details"
)

// expenseFragments is the ordered list of column/constraint definitions the
// expenses table is assembled from. Order matters: it is the table's natural
// column order for positional inserts.
var expenseFragments = []struct {
	name string
	sql  string
}{
	{"id", "id INTEGER PRIMARY KEY AUTOINCREMENT"},
	{"item", "item TEXT NOT NULL"},
	{"amount", "amount REAL NOT NULL"},
	{"type", "type TEXT CONSTRAINT valid_type CHECK(type IN ('want', 'need', 'savings'))"},
	{"receipt_id", "receipt_id INTEGER NOT NULL"},
	{"category_id", "category_id INTEGER"},
	{"details", "details TEXT"},
	{"receipt_id_fk", "FOREIGN KEY (receipt_id) REFERENCES receipts(id)"},
	{"category_id_fk", "FOREIGN KEY (category_id) REFERENCES categories(id)"},
}

// SchemaOptions selects which optional columns/tables to leave out of the
// schema. The zero value builds the full schema.
type SchemaOptions struct {
	// NoCategoryTable drops the categories table and the expenses.category_id
	// column (and, by the dependency rule, its foreign key).
	NoCategoryTable bool `yaml:"no_category_table"`
	// NoCategoryType drops the categories.category_type column.
	NoCategoryType bool `yaml:"no_category_type"`
	// NoExpenseDetails drops the expenses.details column.
	NoExpenseDetails bool `yaml:"no_expense_details"`
	// NoIncomeDetails drops the incomes.details column.
	NoIncomeDetails bool `yaml:"no_income_details"`
}

// Exclusions expands the options into the fragment-name set understood by
// Statements.
func (o SchemaOptions) Exclusions() []string {
	var names []string
	if o.NoCategoryTable {
		names = append(names, FragmentCategoryTable, FragmentCategoryID)
	}
	if o.NoCategoryType {
		names = append(names, FragmentCategoryType)
	}
	if o.NoExpenseDetails {
		names = append(names, FragmentExpenseDetails)
	}
	if o.NoIncomeDetails {
		names = append(names, FragmentIncomeDetails)
	}
	return names
}

// LoadSchemaOptions reads schema options from a YAML file of the form:
//
//	exclude:
//	  - category_table
//	  - income_details
func LoadSchemaOptions(path string) (SchemaOptions, error) {
	var opts SchemaOptions

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read schema config: %w", err)
	}

	var raw struct {
		Exclude []string `yaml:"exclude"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return opts, fmt.Errorf("failed to parse schema config: %w", err)
	}

	for _, name := range raw.Exclude {
		switch name {
		case FragmentCategoryTable:
			opts.NoCategoryTable = true
		case FragmentCategoryType:
			opts.NoCategoryType = true
		case FragmentExpenseDetails, "expense_details":
			opts.NoExpenseDetails = true
		case FragmentIncomeDetails:
			opts.NoIncomeDetails = true
		default:
			return opts, fmt.Errorf("unknown schema exclusion %q", name)
		}
	}

	return opts, nil
}

// BuildSchema creates all ledger tables, honoring the exclusion options.
// Every statement uses CREATE TABLE IF NOT EXISTS, so rebuilding against an
// existing database is a no-op for tables that are already present.
func BuildSchema(conn *Connection, opts SchemaOptions) error {
	return buildSchema(conn, opts.Exclusions()...)
}

func buildSchema(conn *Connection, exclusions ...string) error {
	for _, stmt := range Statements(exclusions...) {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Statements returns the DDL for the schema variant described by the given
// fragment exclusions.
func Statements(exclusions ...string) []string {
	excluded := make(map[string]bool, len(exclusions))
	for _, name := range exclusions {
		excluded[name] = true
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS receipts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			total REAL NOT NULL,
			date TEXT NOT NULL CONSTRAINT valid_date CHECK(date IS date(date, '+0 days')),
			location TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			amount REAL NOT NULL,
			receipt_id INTEGER NOT NULL,
			account_id INTEGER NOT NULL,
			FOREIGN KEY (receipt_id) REFERENCES receipts(id),
			FOREIGN KEY (account_id) REFERENCES accounts(id)
		)`,
		`CREATE TABLE IF NOT EXISTS paystubs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			total REAL NOT NULL,
			date TEXT NOT NULL CONSTRAINT valid_date CHECK(date IS date(date, '+0 days')),
			payer TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS paystub_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			amount REAL NOT NULL,
			paystub_id INTEGER NOT NULL,
			account_id INTEGER NOT NULL,
			FOREIGN KEY (paystub_id) REFERENCES paystubs(id),
			FOREIGN KEY (account_id) REFERENCES accounts(id)
		)`,
	}

	if !excluded[FragmentCategoryTable] {
		stmts = append(stmts, categoriesTableSQL(excluded[FragmentCategoryType]))
	}
	stmts = append(stmts, expensesTableSQL(excluded))
	stmts = append(stmts, incomesTableSQL(excluded[FragmentIncomeDetails]))

	return stmts
}

// expensesTableSQL assembles the expenses table from the ordered fragment
// list, skipping excluded fragments. The category_id foreign key is dropped
// whenever the category_id column itself is dropped, even when the key was
// not named in the exclusion set. The table is always emitted as a single
// statement, never partially.
func expensesTableSQL(excluded map[string]bool) string {
	var defs []string
	for _, frag := range expenseFragments {
		if excluded[frag.name] {
			continue
		}
		if frag.name == "category_id_fk" && excluded[FragmentCategoryID] {
			continue
		}
		defs = append(defs, frag.sql)
	}
	return "CREATE TABLE IF NOT EXISTS expenses (\n\t" + strings.Join(defs, ",\n\t") + "\n)"
}

func categoriesTableSQL(noType bool) string {
	defs := []string{
		"id INTEGER PRIMARY KEY",
		"category TEXT NOT NULL",
		"subcategory TEXT",
	}
	if !noType {
		defs = append(defs, "category_type TEXT CONSTRAINT valid_category_type CHECK(category_type IN ('want', 'need', 'savings'))")
	}
	return "CREATE TABLE IF NOT EXISTS categories (\n\t" + strings.Join(defs, ",\n\t") + "\n)"
}

func incomesTableSQL(noDetails bool) string {
	defs := []string{
		"id INTEGER PRIMARY KEY AUTOINCREMENT",
		"amount REAL NOT NULL",
		"paystub_id INTEGER NOT NULL",
	}
	if !noDetails {
		defs = append(defs, "details TEXT")
	}
	defs = append(defs, "FOREIGN KEY (paystub_id) REFERENCES paystubs(id)")
	return "CREATE TABLE IF NOT EXISTS incomes (\n\t" + strings.Join(defs, ",\n\t") + "\n)"
}
