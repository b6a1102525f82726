package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finledger/pkg/db"
)

var (
	// ErrNoLineItems is returned when a transaction reaches the engine with
	// no child line items. The engine rejects such a transaction before
	// touching the store; a bare parent row is never inserted.
	ErrNoLineItems = errors.New("transaction has no line items")

	// ErrNoSplits is returned when a transaction carries no ledger splits.
	ErrNoSplits = errors.New("transaction has no ledger splits")

	// ErrUnbalancedSplits is returned by Validate when the splits do not sum
	// to the parent total within the tolerance.
	ErrUnbalancedSplits = errors.New("ledger splits do not sum to the total")
)

// splitTolerance is the maximum allowed gap between a parent total and the
// sum of its ledger splits. Enforced by the collector via Validate, not by
// the engine.
var splitTolerance = decimal.NewFromFloat(0.01)

// ExpenseTransaction is one receipt plus its expense line items and the
// ledger splits recording how the total was paid. It becomes durable only on
// Execute; all rows commit together or not at all.
type ExpenseTransaction struct {
	Receipt  Receipt
	Expenses []Expense
	Splits   []LedgerSplit
}

// Validate checks the collector contract: the splits must sum to the receipt
// total within the tolerance. The engine itself does not re-check this.
func (t ExpenseTransaction) Validate() error {
	amounts := make([]decimal.Decimal, len(t.Splits))
	for i, s := range t.Splits {
		amounts[i] = s.Amount
	}
	return ValidateSplits(t.Receipt.Total, amounts)
}

// Execute commits the whole transaction atomically and returns any failure
// as a value. On error nothing is persisted.
func (t ExpenseTransaction) Execute(conn *db.Connection) error {
	children := make([]Child, len(t.Expenses))
	for i, e := range t.Expenses {
		children[i] = e
	}
	splits := make([]Child, len(t.Splits))
	for i, s := range t.Splits {
		splits[i] = s
	}
	return commitTree(conn, t.Receipt, children, splits)
}

// IncomeTransaction mirrors ExpenseTransaction for the income side: one
// paystub, its income line items, and the splits crediting accounts.
type IncomeTransaction struct {
	Paystub Paystub
	Incomes []Income
	Splits  []PaystubSplit
}

// Validate checks that the splits sum to the paystub total within the
// tolerance.
func (t IncomeTransaction) Validate() error {
	amounts := make([]decimal.Decimal, len(t.Splits))
	for i, s := range t.Splits {
		amounts[i] = s.Amount
	}
	return ValidateSplits(t.Paystub.Total, amounts)
}

// Execute commits the whole transaction atomically and returns any failure
// as a value.
func (t IncomeTransaction) Execute(conn *db.Connection) error {
	children := make([]Child, len(t.Incomes))
	for i, inc := range t.Incomes {
		children[i] = inc
	}
	splits := make([]Child, len(t.Splits))
	for i, s := range t.Splits {
		splits[i] = s
	}
	return commitTree(conn, t.Paystub, children, splits)
}

// ValidateSplits checks |sum(amounts) - total| <= 0.01 on exact decimal
// arithmetic.
func ValidateSplits(total decimal.Decimal, amounts []decimal.Decimal) error {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	if sum.Sub(total).Abs().GreaterThan(splitTolerance) {
		return fmt.Errorf("%w: splits sum to %s, total is %s", ErrUnbalancedSplits, sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

// commitTree inserts a parent entity and its dependent children/splits in a
// single database transaction. The parent's generated id is resolved from
// the insert's own result, on the same transaction, before any further
// statement runs, and is substituted into every child's parent-reference
// column. Any statement failure rolls back the whole tree.
func commitTree(conn *db.Connection, parent Entity, children, splits []Child) error {
	if len(children) == 0 {
		return ErrNoLineItems
	}
	if len(splits) == 0 {
		return ErrNoSplits
	}

	return conn.Transaction(func(tx *sql.Tx) error {
		query, args, err := insertStatement(parent.Table(), parent.Fields())
		if err != nil {
			return err
		}
		result, err := tx.Exec(query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", parent.Table(), err)
		}

		parentID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to resolve %s id: %w", parent.Table(), err)
		}

		for _, group := range [][]Child{children, splits} {
			for _, child := range group {
				fields := append(child.Fields(), Field{Column: child.ParentColumn(), Value: parentID})
				query, args, err := insertStatement(child.Table(), fields)
				if err != nil {
					return err
				}
				if _, err := tx.Exec(query, args...); err != nil {
					return fmt.Errorf("failed to insert %s: %w", child.Table(), err)
				}
			}
		}

		return nil
	})
}

// insertStatement builds a parameterized INSERT from the set fields. Unset
// fields are left out of the column list entirely, so optional columns keep
// their defaults instead of being written as nulls.
func insertStatement(table string, fields []Field) (string, []interface{}, error) {
	var cols []string
	var args []interface{}
	for _, f := range fields {
		if f.Unset {
			continue
		}
		cols = append(cols, f.Column)
		args = append(args, f.Value)
	}
	if len(cols) == 0 {
		return "", nil, db.ErrEmptyInput
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
	return query, args, nil
}
