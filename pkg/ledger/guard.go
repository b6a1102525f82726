package ledger

import (
	"errors"
	"fmt"

	"finledger/pkg/db"
)

// ErrRowReferenced is returned when deleting a row that other rows still
// reference.
var ErrRowReferenced = errors.New("row is referenced by existing rows")

// references maps each parent table to the (table, column) pairs that may
// point at it. Referencing tables or columns missing from the built schema
// variant are skipped at runtime.
var references = map[string][]struct {
	table  string
	column string
}{
	"accounts":   {{"ledger", "account_id"}, {"paystub_ledger", "account_id"}},
	"categories": {{"expenses", "category_id"}},
	"receipts":   {{"expenses", "receipt_id"}, {"ledger", "receipt_id"}},
	"paystubs":   {{"incomes", "paystub_id"}, {"paystub_ledger", "paystub_id"}},
}

// Guard deletes rows with a referential-integrity check: a row that is still
// referenced by existing rows is not deleted.
type Guard struct {
	store *db.Store
}

// NewGuard creates a Guard over a record store.
func NewGuard(store *db.Store) *Guard {
	return &Guard{store: store}
}

// Delete removes one row by id after verifying nothing references it.
// Deleting an unknown id remains a no-op.
func (g *Guard) Delete(table string, id int64) error {
	for _, ref := range references[table] {
		ok, err := g.hasColumn(ref.table, ref.column)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", ref.table, ref.column)
		if err := g.store.Conn().QueryRow(query, id).Scan(&count); err != nil {
			return fmt.Errorf("failed to check references in %s: %w", ref.table, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d row(s) in %s reference %s id %d", ErrRowReferenced, count, ref.table, table, id)
		}
	}

	return g.store.DeleteRow(table, id)
}

// hasColumn reports whether the built schema variant contains the given
// table and column.
func (g *Guard) hasColumn(table, column string) (bool, error) {
	var count int
	err := g.store.Conn().QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	return count > 0, nil
}
