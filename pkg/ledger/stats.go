package ledger

import (
	"database/sql"
	"fmt"

	"finledger/pkg/db"
)

// Stats summarizes the ledger's contents.
type Stats struct {
	ReceiptCount int
	ExpenseCount int
	PaystubCount int
	TotalSpent   float64
	TotalEarned  float64
	LastEntry    sql.NullString
}

// CollectStats gathers counts and totals across the ledger.
func CollectStats(conn *db.Connection) (*Stats, error) {
	var stats Stats

	if err := conn.QueryRow(`SELECT COUNT(*) FROM receipts`).Scan(&stats.ReceiptCount); err != nil {
		return nil, fmt.Errorf("failed to count receipts: %w", err)
	}

	if err := conn.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&stats.ExpenseCount); err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}

	if err := conn.QueryRow(`SELECT COUNT(*) FROM paystubs`).Scan(&stats.PaystubCount); err != nil {
		return nil, fmt.Errorf("failed to count paystubs: %w", err)
	}

	if err := conn.QueryRow(`SELECT COALESCE(SUM(total), 0) FROM receipts`).Scan(&stats.TotalSpent); err != nil {
		return nil, fmt.Errorf("failed to sum receipts: %w", err)
	}

	if err := conn.QueryRow(`SELECT COALESCE(SUM(total), 0) FROM paystubs`).Scan(&stats.TotalEarned); err != nil {
		return nil, fmt.Errorf("failed to sum paystubs: %w", err)
	}

	err := conn.QueryRow(`
		SELECT MAX(date) FROM (
			SELECT date FROM receipts
			UNION ALL
			SELECT date FROM paystubs
		)`).Scan(&stats.LastEntry)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to find last entry date: %w", err)
	}

	return &stats, nil
}
