// Package cli implements the menu-driven prompt: it collects transactions
// from the user, hands them to the ledger's transaction engine, and exposes
// the browse/query/delete pass-throughs. It is a thin I/O layer; all
// persistence rules live in pkg/ledger and pkg/db.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"finledger/pkg/db"
	"finledger/pkg/ledger"
)

// ErrCancelled is returned when the user aborts a collection with 'q'.
// Nothing is persisted for an abandoned collection.
var ErrCancelled = errors.New("cancelled")

var menuOptions = []string{
	"Insert expense transaction",
	"Insert income transaction",
	"Print table",
	"Delete row",
	"Execute arbitrary SQL query",
	"Exit",
}

// UI runs the interactive menu loop over one open database connection.
type UI struct {
	in       *bufio.Reader
	out      io.Writer
	conn     *db.Connection
	store    *db.Store
	searcher *ledger.Searcher
	guard    *ledger.Guard
	taxRate  decimal.Decimal
}

// New creates a UI on stdin/stdout.
func New(conn *db.Connection, taxRate float64) *UI {
	return NewWithIO(conn, taxRate, os.Stdin, os.Stdout)
}

// NewWithIO creates a UI with explicit input/output streams.
func NewWithIO(conn *db.Connection, taxRate float64, in io.Reader, out io.Writer) *UI {
	store := db.NewStore(conn)
	return &UI{
		in:       bufio.NewReader(in),
		out:      out,
		conn:     conn,
		store:    store,
		searcher: ledger.NewSearcher(conn),
		guard:    ledger.NewGuard(store),
		taxRate:  decimal.NewFromFloat(taxRate),
	}
}

// Run shows the main menu until the user exits. A failed operation prints a
// message and returns control to the menu; it never ends the loop.
func (u *UI) Run() error {
	for {
		fmt.Fprintln(u.out)
		for i, opt := range menuOptions {
			fmt.Fprintf(u.out, "%d: %s\n", i+1, opt)
		}

		choice, err := u.readLine("> ")
		if err != nil {
			if errors.Is(err, ErrCancelled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var opErr error
		switch choice {
		case "1":
			opErr = u.insertExpenseTransaction()
		case "2":
			opErr = u.insertIncomeTransaction()
		case "3":
			opErr = u.printTable()
		case "4":
			opErr = u.deleteRow()
		case "5":
			opErr = u.runQuery()
		case "6":
			return nil
		default:
			fmt.Fprintln(u.out, "Invalid selection.")
		}

		switch {
		case opErr == nil:
		case errors.Is(opErr, ErrCancelled):
			fmt.Fprintln(u.out, "Cancelled.")
		case errors.Is(opErr, io.EOF):
			return nil
		default:
			fmt.Fprintf(u.out, "Error: %v\n", opErr)
		}
	}
}

func (u *UI) insertExpenseTransaction() error {
	t, err := u.collectExpenseTransaction()
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := t.Execute(u.conn); err != nil {
		return err
	}
	fmt.Fprintln(u.out, "Transaction recorded.")
	return nil
}

func (u *UI) insertIncomeTransaction() error {
	t, err := u.collectIncomeTransaction()
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := t.Execute(u.conn); err != nil {
		return err
	}
	fmt.Fprintln(u.out, "Transaction recorded.")
	return nil
}

func (u *UI) printTable() error {
	table, err := u.chooseTable()
	if err != nil {
		return err
	}
	return u.showTable(table)
}

func (u *UI) deleteRow() error {
	table, err := u.chooseTable()
	if err != nil {
		return err
	}
	if err := u.showTable(table); err != nil {
		return err
	}

	id, err := u.readID(fmt.Sprintf("Enter id of the %s row to delete: ", table))
	if err != nil {
		return err
	}

	if err := u.guard.Delete(table, id); err != nil {
		return err
	}
	fmt.Fprintln(u.out, "Row deleted.")
	return nil
}

func (u *UI) runQuery() error {
	statement, err := u.readLine("Enter SQL query: ")
	if err != nil {
		return err
	}
	u.render(u.store.RawQuery(statement))
	return nil
}

// chooseTable lets the user pick one of the user tables by index.
func (u *UI) chooseTable() (string, error) {
	tables, err := u.store.ListTables()
	if err != nil {
		return "", err
	}
	for i, name := range tables {
		fmt.Fprintf(u.out, "%d: %s\n", i+1, name)
	}

	for {
		choice, err := u.readLine("Select table: ")
		if err != nil {
			return "", err
		}
		idx, err := strconv.Atoi(choice)
		if err == nil && idx >= 1 && idx <= len(tables) {
			return tables[idx-1], nil
		}
		fmt.Fprintln(u.out, "Invalid selection.")
	}
}

// showTable prints the full contents of one table.
func (u *UI) showTable(name string) error {
	result, err := u.store.Search(name, "")
	if err != nil {
		return err
	}
	u.render(result)
	return nil
}

func (u *UI) render(result *db.Columnar) {
	table := tablewriter.NewWriter(u.out)
	table.SetHeader(result.Columns)
	for i := 0; i < result.Len(); i++ {
		table.Append(result.Row(i))
	}
	table.Render()
}

// readLine prompts for one line of input. 'q' cancels the current operation.
func (u *UI) readLine(prompt string) (string, error) {
	fmt.Fprint(u.out, prompt)
	line, err := u.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "q") {
		return "", ErrCancelled
	}
	return line, nil
}

func (u *UI) readID(prompt string) (int64, error) {
	for {
		line, err := u.readLine(prompt)
		if err != nil {
			return 0, err
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err == nil {
			return id, nil
		}
		fmt.Fprintln(u.out, "Invalid id.")
	}
}

func (u *UI) readAmount(prompt string) (decimal.Decimal, error) {
	for {
		line, err := u.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(line)
		if err == nil {
			return amount, nil
		}
		fmt.Fprintln(u.out, "Invalid amount.")
	}
}

// tableExists reports whether the built schema variant contains a table.
func (u *UI) tableExists(name string) bool {
	tables, err := u.store.ListTables()
	if err != nil {
		return false
	}
	for _, t := range tables {
		if t == name {
			return true
		}
	}
	return false
}

// columnExists reports whether a table in the built schema variant has a
// column.
func (u *UI) columnExists(table, column string) bool {
	var count int
	err := u.conn.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
	return err == nil && count > 0
}
