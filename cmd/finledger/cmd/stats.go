package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"finledger/pkg/config"
	"finledger/pkg/db"
	"finledger/pkg/ledger"
	"finledger/pkg/pathutil"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display ledger statistics",
	Long: `Display statistics about the ledger.

Shows:
- Number of receipts, expense line items, and paystubs
- Total spent and total earned
- Date of the most recent entry

Example:
  finledger stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	resolver := pathutil.New(pathutil.Config{
		Root:         cfg.Root,
		DatabasePath: cfg.DBPath,
	})
	dbPath := resolver.DatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	stats, err := ledger.CollectStats(conn)
	exitOnError(err, "failed to collect statistics")

	fmt.Println("\n=== Ledger Statistics ===")
	fmt.Printf("Receipts:      %d\n", stats.ReceiptCount)
	fmt.Printf("Expense items: %d\n", stats.ExpenseCount)
	fmt.Printf("Paystubs:      %d\n", stats.PaystubCount)
	fmt.Printf("Total spent:   $%.2f\n", stats.TotalSpent)
	fmt.Printf("Total earned:  $%.2f\n", stats.TotalEarned)

	if stats.LastEntry.Valid {
		fmt.Printf("Last entry:    %s\n", stats.LastEntry.String)
	} else {
		fmt.Printf("Last entry:    (none)\n")
	}

	fmt.Println()
}
