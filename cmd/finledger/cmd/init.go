package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"finledger/pkg/config"
	"finledger/pkg/db"
	"finledger/pkg/pathutil"
)

var (
	initNoCategoryTable  bool
	initNoCategoryType   bool
	initNoExpenseDetails bool
	initNoIncomeDetails  bool
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the ledger database schema",
	Long: `Create the ledger tables in the database. Optional columns and
tables can be excluded; excluding the category table also drops the
category_id column from expenses. Re-running init against an existing
database is a no-op for tables that are already present.

Example:
  finledger init
  finledger init --no-category-type --no-income-details`,
	Run: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initNoCategoryTable, "no-category-table", false, "exclude the categories table and expenses.category_id")
	initCmd.Flags().BoolVar(&initNoCategoryType, "no-category-type", false, "exclude categories.category_type")
	initCmd.Flags().BoolVar(&initNoExpenseDetails, "no-expense-details", false, "exclude expenses.details")
	initCmd.Flags().BoolVar(&initNoIncomeDetails, "no-income-details", false, "exclude incomes.details")
}

func runInit(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	opts := db.SchemaOptions{
		NoCategoryTable:  initNoCategoryTable,
		NoCategoryType:   initNoCategoryType,
		NoExpenseDetails: initNoExpenseDetails,
		NoIncomeDetails:  initNoIncomeDetails,
	}
	if cfg.SchemaConfig != "" {
		opts, err = db.LoadSchemaOptions(cfg.SchemaConfig)
		exitOnError(err, "failed to load schema config")
	}

	resolver := pathutil.New(pathutil.Config{
		Root:         cfg.Root,
		DatabasePath: cfg.DBPath,
	})
	dbPath := resolver.DatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	err = db.BuildSchema(conn, opts)
	exitOnError(err, "failed to build schema")

	fmt.Printf("Ledger initialized at %s\n", dbPath)
}
