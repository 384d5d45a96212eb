package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"spendwise/internal/models"
	"spendwise/internal/money"
	"spendwise/internal/services"
)

// categoryInput is the validated form of "finance category add".
type categoryInput struct {
	Name        string `binding:"required,max=100"`
	Description string `binding:"max=500"`
	Color       string `binding:"required,hex_color"`
}

func (a *App) category(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("usage: finance category <list|add|delete>")
	}
	switch args[0] {
	case "list":
		return a.listCategories()
	case "add":
		return a.addCategory(args[1:])
	case "delete":
		return a.deleteCategory(args[1:])
	}
	return usageError("unknown category command %q (use list, add or delete)", args[0])
}

func (a *App) listCategories() error {
	categories, err := a.categories.ListCategories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		a.dim("No categories.")
		return nil
	}
	t := a.canvas.Table("ID", "Name", "Description", "Budget Limit")
	for _, c := range categories {
		limit := "-"
		if c.BudgetLimitCents != nil {
			limit = a.canvas.Money(money.FromCents(*c.BudgetLimitCents))
		}
		t.Row(c.ID, a.canvas.Style().Foreground(categoryColor(c.Color)).Render(c.Name),
			orDash(ansi.Truncate(c.Description, 40, "")), limit)
	}
	fmt.Fprintln(a.out, t.String())
	return nil
}

func (a *App) addCategory(args []string) error {
	fs := newFlagSet("category add")
	var in categoryInput
	fs.StringVar(&in.Description, "d", "", "description")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.Color, "color", models.DefaultCategoryColor, "color (hex)")
	budget := fs.String("b", "", "monthly budget limit")
	fs.StringVar(budget, "budget", "", "monthly budget limit")

	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("usage: finance category add NAME [-d DESC] [-b LIMIT] [--color HEX]")
	}
	in.Name = pos[0]
	if err := validate(in); err != nil {
		return err
	}

	var limit *int64
	if *budget != "" {
		d, err := money.Parse(*budget)
		if err != nil {
			return err
		}
		cents := money.ToCents(d)
		limit = &cents
	}

	category, err := a.categories.CreateCategory(in.Name, in.Description, in.Color, limit)
	if err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "CREATE_CATEGORY", "category", category.ID,
		map[string]interface{}{"name": category.Name})
	a.success(fmt.Sprintf("Category '%s' created (ID: %s)", category.Name, category.ID))
	return nil
}

func (a *App) deleteCategory(args []string) error {
	fs := newFlagSet("category delete")
	reassign := fs.String("reassign", "", "category receiving the expenses")
	yes := fs.Bool("yes", false, "confirm deletion")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageError("usage: finance category delete NAME [--reassign NAME] --yes")
	}

	category, err := a.resolveCategory(pos[0])
	if err != nil {
		return err
	}
	var target *string
	if *reassign != "" {
		to, err := a.resolveCategory(*reassign)
		if err != nil {
			return err
		}
		target = &to.ID
	}
	if err := requireYes(*yes, "category '"+category.Name+"'"); err != nil {
		return err
	}

	if err := a.categories.DeleteCategory(category.ID, target); err != nil {
		return err
	}
	a.audit.Log(services.SourceCLI, "DELETE_CATEGORY", "category", category.ID,
		map[string]interface{}{"name": category.Name, "reassign_to": target})
	a.success(fmt.Sprintf("Category '%s' deleted", category.Name))
	return nil
}

// categoryColor falls back to the default color when none is stored.
func categoryColor(hex string) lipgloss.Color {
	if hex == "" {
		hex = models.DefaultCategoryColor
	}
	return lipgloss.Color(hex)
}
