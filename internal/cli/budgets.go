package cli

import (
	"context"
	"fmt"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/money"
	"spendwise/internal/services"
)

// budgetInput is the validated form of "finance budget set".
type budgetInput struct {
	Amount         string `binding:"required"`
	Period         string `binding:"required,budget_period"`
	AlertThreshold int    `binding:"min=1,max=100"`
}

func (a *App) budget(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("usage: finance budget <set|list|delete>")
	}
	switch args[0] {
	case "set":
		return a.setBudget(args[1:])
	case "list":
		return a.listBudgets()
	case "delete":
		return a.deleteBudget(args[1:])
	}
	return usageError("unknown budget command %q (use set, list or delete)", args[0])
}

func (a *App) setBudget(args []string) error {
	fs := newFlagSet("budget set")
	var in budgetInput
	categoryRef := fs.String("c", "", "category name (omit for the overall budget)")
	fs.StringVar(categoryRef, "category", "", "category name (omit for the overall budget)")
	fs.StringVar(&in.Period, "p", string(models.BudgetPeriodMonthly), "period")
	fs.StringVar(&in.Period, "period", string(models.BudgetPeriodMonthly), "period")
	fs.IntVar(&in.AlertThreshold, "alert", models.DefaultAlertThreshold, "alert threshold percentage")

	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("usage: finance budget set AMOUNT [-c CATEGORY] [-p PERIOD] [--alert PCT]")
	}
	in.Amount = pos[0]
	if err := validate(in); err != nil {
		return err
	}
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return err
	}

	var categoryID *string
	name := models.OverallBudgetName
	if *categoryRef != "" {
		category, err := a.resolveCategory(*categoryRef)
		if err != nil {
			return err
		}
		categoryID, name = &category.ID, category.Name
	}

	budget, err := a.budgets.SetBudget(categoryID, money.ToCents(amount), models.BudgetPeriod(in.Period), in.AlertThreshold)
	if err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "SET_BUDGET", "budget", budget.ID,
		map[string]interface{}{"scope": budget.Scope, "amount_cents": budget.AmountCents})
	a.success(fmt.Sprintf("Budget set for %s: %s/%s", name, a.canvas.Money(amount), budget.Period))
	return nil
}

func (a *App) listBudgets() error {
	budgets, err := a.budgets.ListBudgets()
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		a.dim("No budgets set.")
		return nil
	}
	t := a.canvas.Table("ID", "Category", "Amount", "Period", "Alert At")
	for _, b := range budgets {
		t.Row(b.ID, b.DisplayName(), a.canvas.Money(money.FromCents(b.AmountCents)), string(b.Period), fmt.Sprintf("%d%%", b.AlertThreshold))
	}
	fmt.Fprintln(a.out, t.String())
	return nil
}

// deleteBudget removes the budget of a category, or the overall budget when
// no category is named.
func (a *App) deleteBudget(args []string) error {
	fs := newFlagSet("budget delete")
	yes := fs.Bool("yes", false, "confirm deletion")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) > 1 {
		return usageError("usage: finance budget delete [CATEGORY] --yes")
	}

	scope, name := models.OverallScope, models.OverallBudgetName
	if len(pos) == 1 {
		category, err := a.resolveCategory(pos[0])
		if err != nil {
			return err
		}
		scope, name = category.ID, category.Name
	}

	budgets, err := a.budgets.ListBudgets()
	if err != nil {
		return err
	}
	var target *models.Budget
	for i := range budgets {
		if budgets[i].Scope == scope {
			target = &budgets[i]
			break
		}
	}
	if target == nil {
		return apperrors.WithMessage(apperrors.ErrBudgetNotFound, "No budget set for "+name)
	}
	if err := requireYes(*yes, "the "+name+" budget"); err != nil {
		return err
	}

	if err := a.budgets.DeleteBudget(target.ID); err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "DELETE_BUDGET", "budget", target.ID, nil)
	a.success("Budget for " + name + " deleted")
	return nil
}
