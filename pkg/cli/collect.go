package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"finledger/pkg/ledger"
)

// maxSuggestions caps how many previously entered values are shown as hints.
const maxSuggestions = 10

// splitTolerance mirrors the collector contract: splits are collected until
// the remainder is inside one cent of the total.
var splitTolerance = decimal.NewFromFloat(0.01)

// splitInput is one collected (amount, account) pair, mapped to a
// LedgerSplit or PaystubSplit by the caller.
type splitInput struct {
	amount    decimal.Decimal
	accountID int64
}

// collectExpenseTransaction walks the user through a receipt, its expense
// line items, and the ledger splits paying for it. Returns ErrCancelled when
// the user quits early; nothing is persisted in that case.
func (u *UI) collectExpenseTransaction() (*ledger.ExpenseTransaction, error) {
	date, err := u.readLine("Enter date of expense(s) (YYYY-MM-DD): ")
	if err != nil {
		return nil, err
	}
	location, err := u.readLine("Enter location of expense(s): ")
	if err != nil {
		return nil, err
	}

	u.suggestItems()

	var expenses []ledger.Expense
	total := decimal.Zero
	for {
		item, err := u.readLine("Enter expense item (empty or \"done\" to finish): ")
		if err != nil {
			return nil, err
		}
		if item == "" || strings.EqualFold(item, "done") {
			break
		}

		u.suggestAmounts(item)
		amount, err := u.readAmount(fmt.Sprintf("Enter amount for %s ($): ", item))
		if err != nil {
			return nil, err
		}
		amount, err = u.applyTax(amount)
		if err != nil {
			return nil, err
		}

		expenseType, err := u.readExpenseType()
		if err != nil {
			return nil, err
		}

		var categoryID int64
		if u.tableExists("categories") {
			categoryID, err = u.readCategory(item)
			if err != nil {
				return nil, err
			}
		}

		var details string
		if u.columnExists("expenses", "details") {
			details, err = u.readLine("Enter any details about the expense (empty for none): ")
			if err != nil {
				return nil, err
			}
		}

		expenses = append(expenses, ledger.Expense{
			Item:       item,
			Amount:     amount,
			Type:       expenseType,
			CategoryID: categoryID,
			Details:    details,
		})
		total = total.Add(amount)
		fmt.Fprintln(u.out, "Expense recorded.")
	}

	if len(expenses) == 0 {
		return nil, ErrCancelled
	}

	splits, err := u.collectSplits(total, "How did you pay?")
	if err != nil {
		return nil, err
	}

	t := &ledger.ExpenseTransaction{
		Receipt: ledger.Receipt{Total: total, Date: date, Location: location},
	}
	t.Expenses = expenses
	for _, s := range splits {
		t.Splits = append(t.Splits, ledger.LedgerSplit{Amount: s.amount, AccountID: s.accountID})
	}
	return t, nil
}

// collectIncomeTransaction mirrors collectExpenseTransaction for the income
// side: a paystub, its income line items, and the splits crediting accounts.
func (u *UI) collectIncomeTransaction() (*ledger.IncomeTransaction, error) {
	date, err := u.readLine("Enter date the income was received (YYYY-MM-DD): ")
	if err != nil {
		return nil, err
	}
	payer, err := u.readLine("Enter payer of the income: ")
	if err != nil {
		return nil, err
	}

	hasDetails := u.columnExists("incomes", "details")

	var incomes []ledger.Income
	total := decimal.Zero
	for {
		line, err := u.readLine("Enter income amount (empty or \"done\" to finish): ")
		if err != nil {
			return nil, err
		}
		if line == "" || strings.EqualFold(line, "done") {
			break
		}
		amount, err := decimal.NewFromString(line)
		if err != nil {
			fmt.Fprintln(u.out, "Invalid amount.")
			continue
		}

		var details string
		if hasDetails {
			details, err = u.readLine("Enter income details (empty for none): ")
			if err != nil {
				return nil, err
			}
		}

		incomes = append(incomes, ledger.Income{Amount: amount, Details: details})
		total = total.Add(amount)
	}

	if len(incomes) == 0 {
		return nil, ErrCancelled
	}

	splits, err := u.collectSplits(total, "What accounts are being credited?")
	if err != nil {
		return nil, err
	}

	t := &ledger.IncomeTransaction{
		Paystub: ledger.Paystub{Total: total, Date: date, Payer: payer},
	}
	t.Incomes = incomes
	for _, s := range splits {
		t.Splits = append(t.Splits, ledger.PaystubSplit{Amount: s.amount, AccountID: s.accountID})
	}
	return t, nil
}

// collectSplits gathers (amount, account) pairs until the remainder is
// inside the tolerance. The user can add a new account inline.
func (u *UI) collectSplits(total decimal.Decimal, prompt string) ([]splitInput, error) {
	fmt.Fprintln(u.out, prompt)

	remaining := total
	var splits []splitInput
	for remaining.Abs().GreaterThan(splitTolerance) {
		fmt.Fprintf(u.out, "Remaining: $%s\n", remaining.StringFixed(2))
		if err := u.showTable("accounts"); err != nil {
			return nil, err
		}

		accountID, err := u.readAccount()
		if err != nil {
			return nil, err
		}

		amount, err := u.readAmount("Enter amount ($): ")
		if err != nil {
			return nil, err
		}

		splits = append(splits, splitInput{amount: amount, accountID: accountID})
		remaining = remaining.Sub(amount)
	}
	return splits, nil
}

func (u *UI) readAccount() (int64, error) {
	for {
		line, err := u.readLine("Enter account id (or \"add\" to add a new account): ")
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(line, "add") {
			return u.addAccount()
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err == nil {
			return id, nil
		}
		fmt.Fprintln(u.out, "Invalid account id.")
	}
}

func (u *UI) addAccount() (int64, error) {
	name, err := u.readLine("Enter new account name: ")
	if err != nil {
		return 0, err
	}
	description, err := u.readLine("Enter account description (empty for none): ")
	if err != nil {
		return 0, err
	}
	return ledger.InsertEntity(u.store, ledger.Account{Name: name, Description: description})
}

func (u *UI) readExpenseType() (string, error) {
	for {
		line, err := u.readLine("Enter type of expense (want, need, savings; empty for none): ")
		if err != nil {
			return "", err
		}
		switch line {
		case "", "want", "need", "savings":
			return line, nil
		}
		fmt.Fprintln(u.out, "Invalid type.")
	}
}

// readCategory lets the user pick an existing category id or add a new one.
func (u *UI) readCategory(item string) (int64, error) {
	fmt.Fprintf(u.out, "Select category for %s:\n", item)
	if err := u.showTable("categories"); err != nil {
		return 0, err
	}

	for {
		line, err := u.readLine("Enter category id (\"add\" for a new category, empty for none): ")
		if err != nil {
			return 0, err
		}
		if line == "" {
			return 0, nil
		}
		if strings.EqualFold(line, "add") {
			return u.addCategory()
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err == nil {
			return id, nil
		}
		fmt.Fprintln(u.out, "Invalid category id.")
	}
}

func (u *UI) addCategory() (int64, error) {
	name, err := u.readLine("Enter new category name: ")
	if err != nil {
		return 0, err
	}
	subcategory, err := u.readLine("Enter subcategory (empty for none): ")
	if err != nil {
		return 0, err
	}

	var categoryType string
	if u.columnExists("categories", "category_type") {
		categoryType, err = u.readExpenseType()
		if err != nil {
			return 0, err
		}
	}

	return ledger.InsertEntity(u.store, ledger.Category{
		Category:     name,
		Subcategory:  subcategory,
		CategoryType: categoryType,
	})
}

// applyTax optionally grosses an amount up by the sales tax rate.
func (u *UI) applyTax(amount decimal.Decimal) (decimal.Decimal, error) {
	answer, err := u.readLine("Is this expense taxable? (y/n): ")
	if err != nil {
		return decimal.Zero, err
	}
	if !strings.EqualFold(answer, "y") {
		return amount, nil
	}

	rate := u.taxRate
	prompt := fmt.Sprintf("Enter tax rate %% (empty for %s%%): ", u.taxRate.Mul(decimal.NewFromInt(100)).StringFixed(0))
	line, err := u.readLine(prompt)
	if err != nil {
		return decimal.Zero, err
	}
	if line != "" {
		pct, err := decimal.NewFromString(line)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid tax rate: %s", line)
		}
		rate = pct.Div(decimal.NewFromInt(100))
	}

	return amount.Mul(decimal.NewFromInt(1).Add(rate)).Round(2), nil
}

func (u *UI) suggestItems() {
	items, err := u.searcher.ExpenseItems()
	if err != nil || len(items) == 0 {
		return
	}
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	fmt.Fprintf(u.out, "Previously entered items: %s\n", strings.Join(items, ", "))
}

func (u *UI) suggestAmounts(item string) {
	amounts, err := u.searcher.AmountsFor(item)
	if err != nil || len(amounts) == 0 {
		return
	}
	if len(amounts) > maxSuggestions {
		amounts = amounts[:maxSuggestions]
	}
	fmt.Fprintf(u.out, "Previous amounts for %s: %s\n", item, strings.Join(amounts, ", "))
}
