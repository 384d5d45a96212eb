package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"spendwise/internal/models"
	"spendwise/internal/money"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

var successColor = lipgloss.Color("#22c55e")

// expenseInput is the validated form of "finance add".
type expenseInput struct {
	Amount        string   `binding:"required"`
	Description   string   `binding:"max=500"`
	Date          string   `binding:"omitempty,iso_date"`
	PaymentMethod string   `binding:"required,payment_method"`
	Tags          []string `binding:"max=20,dive,max=50"`
}

func (a *App) add(_ context.Context, args []string) error {
	fs := newFlagSet("add")
	var in expenseInput
	var tags stringList
	fs.StringVar(&in.Description, "d", "", "description")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Date, "date", "", "date of the expense (YYYY-MM-DD, default today)")
	fs.StringVar(&in.PaymentMethod, "p", string(models.PaymentMethodCash), "payment method")
	fs.StringVar(&in.PaymentMethod, "payment", string(models.PaymentMethodCash), "payment method")
	fs.Var(&tags, "t", "tag (repeatable)")
	fs.Var(&tags, "tag", "tag (repeatable)")
	recurring := fs.Bool("recurring", false, "mark as recurring")

	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 1 || len(pos) > 2 {
		return usageError("usage: finance add AMOUNT [CATEGORY] [-d DESC] [--date YYYY-MM-DD] [-p METHOD] [-t TAG] [--recurring]")
	}
	in.Amount = pos[0]
	in.Tags = tags
	if err := validate(in); err != nil {
		return err
	}

	amount, err := money.Parse(in.Amount)
	if err != nil {
		return err
	}
	expense := services.ExpenseInput{
		AmountCents:   money.ToCents(amount),
		Description:   in.Description,
		PaymentMethod: models.PaymentMethod(in.PaymentMethod),
		Tags:          in.Tags,
		IsRecurring:   *recurring,
		Date:          models.DateOf(a.now()),
	}
	if d, err := optionalDate(in.Date); err != nil {
		return err
	} else if d != nil {
		expense.Date = *d
	}
	if len(pos) == 2 {
		category, err := a.resolveCategory(pos[1])
		if err != nil {
			return a.withAvailableCategories(err)
		}
		expense.CategoryID = &category.ID
	}

	created, err := a.expenses.CreateExpense(expense)
	if err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "CREATE_EXPENSE", "expense", created.ID,
		map[string]interface{}{"amount_cents": created.AmountCents, "date": created.Date.String()})

	body := strings.Join([]string{
		"Amount: " + a.canvas.Money(money.FromCents(created.AmountCents)),
		"Category: " + created.CategoryName(),
		"Description: " + orDash(created.Description),
		"Date: " + a.canvas.Muted(created.Date.String()),
	}, "\n")
	fmt.Fprintln(a.out, a.canvas.Panel("✅ Expense Added (ID: "+created.ID+")", body))
	return nil
}

// withAvailableCategories lists the known categories after a failed lookup.
func (a *App) withAvailableCategories(err error) error {
	categories, listErr := a.categories.ListCategories()
	if listErr != nil || len(categories) == 0 {
		return err
	}
	var b strings.Builder
	b.WriteString("Available categories:")
	for _, c := range categories {
		b.WriteString("\n  • " + c.Name)
	}
	fmt.Fprintln(a.out, b.String())
	return err
}

func (a *App) list(_ context.Context, args []string) error {
	fs := newFlagSet("list")
	limit := fs.Int("n", pagination.DefaultPageSize, "number of expenses to show")
	fs.IntVar(limit, "limit", pagination.DefaultPageSize, "number of expenses to show")
	page := fs.Int("page", 1, "page number")
	today := fs.Bool("today", false, "only today")
	thisWeek := fs.Bool("this-week", false, "only this week")
	thisMonth := fs.Bool("this-month", false, "only this month")
	categoryRef := fs.String("category", "", "category name")
	startDate := fs.String("start-date", "", "start date (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "end date (YYYY-MM-DD)")
	payment := fs.String("payment", "", "payment method")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var filter services.ExpenseFilter
	now := models.DateOf(a.now())
	switch {
	case *today:
		filter.FromDate, filter.ToDate = &now, &now
	case *thisWeek:
		// Weeks start on Monday.
		start := now.AddDays(-((int(now.Weekday()) + 6) % 7))
		filter.FromDate, filter.ToDate = &start, &now
	case *thisMonth:
		start := models.NewDate(now.Year(), now.Month(), 1)
		filter.FromDate, filter.ToDate = &start, &now
	default:
		var err error
		if filter.FromDate, err = optionalDate(*startDate); err != nil {
			return err
		}
		if filter.ToDate, err = optionalDate(*endDate); err != nil {
			return err
		}
	}
	if *categoryRef != "" {
		category, err := a.resolveCategory(*categoryRef)
		if err != nil {
			return err
		}
		filter.CategoryID = &category.ID
	}
	if *payment != "" {
		pm := models.PaymentMethod(*payment)
		if !pm.Valid() {
			return usageError("invalid payment method %q", *payment)
		}
		filter.PaymentMethod = &pm
	}

	result, err := a.expenses.ListExpenses(pagination.PageRequest{Page: *page, PageSize: *limit}, filter)
	if err != nil {
		return err
	}
	if len(result.Data) == 0 {
		a.dim("No expenses found.")
		return nil
	}

	t := a.canvas.Table("ID", "Date", "Category", "Description", "Amount", "Method")
	total := decimal.Zero
	for _, e := range result.Data {
		amount := money.FromCents(e.AmountCents)
		total = total.Add(amount)
		t.Row(e.ID, e.Date.String(), ansi.Truncate(e.CategoryName(), 17, ""),
			orDash(ansi.Truncate(e.Description, 35, "")), a.canvas.Money(amount), orDash(string(e.PaymentMethod)))
	}
	fmt.Fprintln(a.out, t.String())
	footer := fmt.Sprintf("Showing %d of %d expenses | Total: %s", len(result.Data), result.TotalItems, a.canvas.Money(total))
	if result.HasNext() {
		footer += fmt.Sprintf(" | Page %d of %d (--page %d for more)", result.Page, result.TotalPages, result.Page+1)
	}
	a.dim(footer)
	return nil
}

func (a *App) edit(_ context.Context, args []string) error {
	fs := newFlagSet("edit")
	amount := fs.String("amount", "", "new amount")
	categoryRef := fs.String("category", "", "new category name")
	clearCategory := fs.Bool("clear-category", false, "make the expense uncategorized")
	description := fs.String("d", "", "new description")
	fs.StringVar(description, "description", "", "new description")
	date := fs.String("date", "", "new date (YYYY-MM-DD)")
	payment := fs.String("p", "", "new payment method")
	fs.StringVar(payment, "payment", "", "new payment method")
	var tags stringList
	fs.Var(&tags, "t", "replace tags (repeatable)")
	fs.Var(&tags, "tag", "replace tags (repeatable)")
	recurring := fs.Bool("recurring", false, "mark as recurring")

	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("usage: finance edit ID [--amount N] [--category NAME] [-d DESC] [--date YYYY-MM-DD] [-p METHOD] [-t TAG] [--recurring=BOOL]")
	}
	id := pos[0]
	set := flagSet(fs)
	if len(set) == 0 {
		return usageError("nothing to change; pass at least one flag")
	}

	var upd services.ExpenseUpdate
	if set["amount"] {
		d, err := money.Parse(*amount)
		if err != nil {
			return err
		}
		cents := money.ToCents(d)
		upd.AmountCents = &cents
	}
	if set["category"] {
		category, err := a.resolveCategory(*categoryRef)
		if err != nil {
			return err
		}
		upd.CategoryID = &category.ID
	}
	upd.ClearCategory = *clearCategory
	if set["d"] || set["description"] {
		upd.Description = description
	}
	if set["date"] {
		d, err := optionalDate(*date)
		if err != nil {
			return err
		}
		upd.Date = d
	}
	if set["p"] || set["payment"] {
		pm := models.PaymentMethod(*payment)
		upd.PaymentMethod = &pm
	}
	if set["t"] || set["tag"] {
		upd.Tags = tags
	}
	if set["recurring"] {
		upd.IsRecurring = recurring
	}

	if _, err := a.expenses.UpdateExpense(id, upd); err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "UPDATE_EXPENSE", "expense", id, nil)
	a.success("Expense updated successfully")
	return nil
}

func (a *App) delete(_ context.Context, args []string) error {
	fs := newFlagSet("delete")
	yes := fs.Bool("yes", false, "confirm deletion")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("usage: finance delete ID --yes")
	}
	if err := requireYes(*yes, "expense "+pos[0]); err != nil {
		return err
	}
	if err := a.expenses.DeleteExpense(pos[0]); err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "DELETE_EXPENSE", "expense", pos[0], nil)
	a.success("Expense " + pos[0] + " deleted")
	return nil
}

func (a *App) search(_ context.Context, args []string) error {
	fs := newFlagSet("search")
	limit := fs.Int("n", services.DefaultSearchLimit, "maximum results")
	fs.IntVar(limit, "limit", services.DefaultSearchLimit, "maximum results")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("usage: finance search KEYWORD [-n LIMIT]")
	}

	expenses, err := a.expenses.SearchExpenses(pos[0], *limit)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		a.dim(fmt.Sprintf("No expenses matching '%s'", pos[0]))
		return nil
	}

	t := a.canvas.Table("ID", "Date", "Category", "Description", "Amount")
	for _, e := range expenses {
		t.Row(e.ID, e.Date.String(), e.CategoryName(), orDash(e.Description), a.canvas.Money(money.FromCents(e.AmountCents)))
	}
	fmt.Fprintln(a.out, t.String())
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
