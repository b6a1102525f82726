package ledger

import (
	"fmt"
	"strings"

	"finledger/pkg/db"
)

// Searcher runs the domain read queries that feed suggestions and browsing.
type Searcher struct {
	conn *db.Connection
}

// NewSearcher creates a Searcher on an open connection.
func NewSearcher(conn *db.Connection) *Searcher {
	return &Searcher{conn: conn}
}

// SearchExpenses returns expenses joined to their receipts within the given
// day window, deduplicated so each item name appears once (its earliest
// occurrence). An empty item matches everything.
func (s *Searcher) SearchExpenses(item string, days int) (*db.Columnar, error) {
	query := `
		SELECT e.* FROM receipts
		INNER JOIN (
			SELECT * FROM expenses e1 WHERE NOT EXISTS (
				SELECT 1 FROM expenses e2 WHERE e1.item = e2.item AND e2.id < e1.id
			)
		) e ON receipts.id = e.receipt_id
		WHERE JulianDay('now') - JulianDay(date) <= ?`
	args := []interface{}{days}

	if item != "" {
		query += " AND item = ?"
		args = append(args, item)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search expenses: %w", err)
	}
	return db.Collect(rows)
}

// SearchCategories returns the categories with the given ids, or all
// categories when no ids are given.
func (s *Searcher) SearchCategories(ids ...int64) (*db.Columnar, error) {
	query := "SELECT * FROM categories"
	var args []interface{}

	if len(ids) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
		query += fmt.Sprintf(" WHERE id IN (%s)", placeholders)
		for _, id := range ids {
			args = append(args, id)
		}
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return db.Collect(rows)
}

// PaystubFilter narrows a paystub search. Filters apply in order of
// precedence: ID, then Payer, then Date; a zero filter returns everything.
type PaystubFilter struct {
	ID    int64
	Payer string
	Date  string
}

// SearchPaystubs returns the paystubs matching the filter.
func (s *Searcher) SearchPaystubs(filter PaystubFilter) (*db.Columnar, error) {
	query := "SELECT * FROM paystubs"
	var args []interface{}

	switch {
	case filter.ID != 0:
		query += " WHERE id = ?"
		args = append(args, filter.ID)
	case filter.Payer != "":
		query += " WHERE payer = ?"
		args = append(args, filter.Payer)
	case filter.Date != "":
		query += " WHERE date = ?"
		args = append(args, filter.Date)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search paystubs: %w", err)
	}
	return db.Collect(rows)
}

// SearchIncomes returns the income with the given id, or all incomes when id
// is zero.
func (s *Searcher) SearchIncomes(id int64) (*db.Columnar, error) {
	query := "SELECT * FROM incomes"
	var args []interface{}

	if id != 0 {
		query += " WHERE id = ?"
		args = append(args, id)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search incomes: %w", err)
	}
	return db.Collect(rows)
}

// ExpenseItems returns the distinct expense item names entered in the last
// year, for suggestion lists.
func (s *Searcher) ExpenseItems() ([]string, error) {
	result, err := s.SearchExpenses("", 365)
	if err != nil {
		return nil, err
	}
	return result.Distinct("item"), nil
}

// AmountsFor returns the distinct amounts previously recorded for an item,
// for suggestion lists.
func (s *Searcher) AmountsFor(item string) ([]string, error) {
	result, err := s.SearchExpenses(item, 365)
	if err != nil {
		return nil, err
	}
	return result.Distinct("amount"), nil
}
