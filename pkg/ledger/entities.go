// Package ledger holds the domain entities of the personal finance ledger
// and the transaction engine that persists them atomically.
package ledger

import (
	"github.com/shopspring/decimal"

	"finledger/pkg/db"
)

// Field is one (column, value) pair of an entity's row. A field marked Unset
// is omitted from the INSERT statement entirely rather than written as a
// null placeholder.
type Field struct {
	Column string
	Value  interface{}
	Unset  bool
}

// Entity is a value object that knows which table it belongs to and how to
// serialize itself to an explicit, ordered column list.
type Entity interface {
	Table() string
	Fields() []Field
}

// Child is an entity with a foreign key to a parent whose id is not known
// until the parent row is inserted. ParentColumn names the column the
// transaction engine fills with the parent's generated id.
type Child interface {
	Entity
	ParentColumn() string
}

// Account is a payment or deposit destination, e.g. a card or a bank account.
type Account struct {
	Name        string
	Description string
}

func (a Account) Table() string { return "accounts" }

func (a Account) Fields() []Field {
	return []Field{
		{Column: "name", Value: a.Name},
		{Column: "description", Value: a.Description, Unset: a.Description == ""},
	}
}

// Category classifies an expense. Subcategory and CategoryType are optional;
// CategoryType only exists in schema variants that include the column.
type Category struct {
	Category     string
	Subcategory  string
	CategoryType string
}

func (c Category) Table() string { return "categories" }

func (c Category) Fields() []Field {
	return []Field{
		{Column: "category", Value: c.Category},
		{Column: "subcategory", Value: c.Subcategory, Unset: c.Subcategory == ""},
		{Column: "category_type", Value: c.CategoryType, Unset: c.CategoryType == ""},
	}
}

// Receipt is the parent record of an expense-side transaction. Total is the
// sum of the child expenses' amounts; the collector computes it, the store
// does not enforce it.
type Receipt struct {
	Total    decimal.Decimal
	Date     string
	Location string
}

func (r Receipt) Table() string { return "receipts" }

func (r Receipt) Fields() []Field {
	return []Field{
		{Column: "total", Value: r.Total.InexactFloat64()},
		{Column: "date", Value: r.Date},
		{Column: "location", Value: r.Location},
	}
}

// Expense is a single line item on a receipt. Type, CategoryID, and Details
// are optional; a zero CategoryID means no category was assigned.
type Expense struct {
	Item       string
	Amount     decimal.Decimal
	Type       string
	CategoryID int64
	Details    string
}

func (e Expense) Table() string { return "expenses" }

func (e Expense) ParentColumn() string { return "receipt_id" }

func (e Expense) Fields() []Field {
	return []Field{
		{Column: "item", Value: e.Item},
		{Column: "amount", Value: e.Amount.InexactFloat64()},
		{Column: "type", Value: e.Type, Unset: e.Type == ""},
		{Column: "category_id", Value: e.CategoryID, Unset: e.CategoryID == 0},
		{Column: "details", Value: e.Details, Unset: e.Details == ""},
	}
}

// LedgerSplit records how much of a receipt's total was settled through one
// account.
type LedgerSplit struct {
	Amount    decimal.Decimal
	AccountID int64
}

func (l LedgerSplit) Table() string { return "ledger" }

func (l LedgerSplit) ParentColumn() string { return "receipt_id" }

func (l LedgerSplit) Fields() []Field {
	return []Field{
		{Column: "amount", Value: l.Amount.InexactFloat64()},
		{Column: "account_id", Value: l.AccountID},
	}
}

// Paystub is the parent record of an income-side transaction.
type Paystub struct {
	Total decimal.Decimal
	Date  string
	Payer string
}

func (p Paystub) Table() string { return "paystubs" }

func (p Paystub) Fields() []Field {
	return []Field{
		{Column: "total", Value: p.Total.InexactFloat64()},
		{Column: "date", Value: p.Date},
		{Column: "payer", Value: p.Payer},
	}
}

// Income is a single line item on a paystub.
type Income struct {
	Amount  decimal.Decimal
	Details string
}

func (i Income) Table() string { return "incomes" }

func (i Income) ParentColumn() string { return "paystub_id" }

func (i Income) Fields() []Field {
	return []Field{
		{Column: "amount", Value: i.Amount.InexactFloat64()},
		{Column: "details", Value: i.Details, Unset: i.Details == ""},
	}
}

// PaystubSplit records how much of a paystub's total was credited to one
// account.
type PaystubSplit struct {
	Amount    decimal.Decimal
	AccountID int64
}

func (p PaystubSplit) Table() string { return "paystub_ledger" }

func (p PaystubSplit) ParentColumn() string { return "paystub_id" }

func (p PaystubSplit) Fields() []Field {
	return []Field{
		{Column: "amount", Value: p.Amount.InexactFloat64()},
		{Column: "account_id", Value: p.AccountID},
	}
}

// InsertEntity persists a standalone entity (an account or a category added
// outside a transaction) and returns its generated id.
func InsertEntity(store *db.Store, e Entity) (int64, error) {
	var cols []string
	var values []interface{}
	for _, f := range e.Fields() {
		if f.Unset {
			continue
		}
		cols = append(cols, f.Column)
		values = append(values, f.Value)
	}
	return store.Insert(e.Table(), cols, values)
}
