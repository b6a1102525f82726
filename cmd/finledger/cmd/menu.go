package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"finledger/pkg/cli"
	"finledger/pkg/config"
	"finledger/pkg/db"
	"finledger/pkg/pathutil"
)

// menuCmd represents the menu command.
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the interactive ledger menu",
	Long: `Run the menu-driven prompt: insert expense and income transactions,
browse tables, delete rows, and run read queries.

Example:
  finledger menu`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	resolver := pathutil.New(pathutil.Config{
		Root:         cfg.Root,
		DatabasePath: cfg.DBPath,
	})
	dbPath := chooseDatabase(cfg.DBPath, resolver)
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	ui := cli.New(conn, cfg.TaxRate)
	exitOnError(ui.Run(), "menu loop failed")
}

// chooseDatabase resolves the database path, prompting when several existing
// database files are found under the root.
func chooseDatabase(explicit string, resolver *pathutil.Resolver) string {
	if explicit != "" {
		return explicit
	}

	candidates := resolver.Candidates()
	if len(candidates) <= 1 {
		return resolver.DatabasePath()
	}

	fmt.Println("Multiple databases found, please enter the index of the database to use:")
	for i, path := range candidates {
		fmt.Printf("%d: %s\n", i+1, path)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return candidates[0]
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && idx >= 1 && idx <= len(candidates) {
			return candidates[idx-1]
		}
		fmt.Println("Invalid selection.")
	}
}
