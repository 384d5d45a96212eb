// Package cli implements the finance command-line tool on top of the
// services, reports and export packages.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"spendwise/internal/charts"
	"spendwise/internal/config"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/export"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/reports"
	"spendwise/internal/services"
	spendvalidator "spendwise/internal/validator"
)

// Version is reported by "finance version".
const Version = "1.0.0"

// Deps are the collaborators of an App.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Stats  services.StatsServicer
	Out    io.Writer
	// Now supplies "today" for reports and list shortcuts. Defaults to time.Now.
	Now func() time.Time
}

// App runs finance subcommands.
type App struct {
	cfg        *config.Config
	out        io.Writer
	canvas     *charts.Canvas
	expenses   services.ExpenseServicer
	categories services.CategoryServicer
	budgets    services.BudgetServicer
	stats      services.StatsServicer
	audit      services.AuditServicer
	reports    *reports.Generator
	exporter   *export.Exporter
	now        func() time.Time
}

// New builds an App over d.DB.
func New(d Deps) *App {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Stats == nil {
		d.Stats = services.NewStatsService(d.DB, "sqlite", "")
	}
	store := services.NewLedgerStore(d.DB)
	return &App{
		cfg:        d.Config,
		out:        d.Out,
		canvas:     charts.NewCanvas(d.Out, d.Config.CurrencySymbol),
		expenses:   services.NewExpenseService(d.DB),
		categories: services.NewCategoryService(d.DB),
		budgets:    services.NewBudgetService(d.DB),
		stats:      d.Stats,
		audit:      services.NewAuditService(d.DB),
		reports: reports.NewGenerator(store, reports.Options{
			ChartWidth:     d.Config.ChartWidth,
			SparklineWidth: d.Config.SparklineWidth,
			CurrencySymbol: d.Config.CurrencySymbol,
			Now:            d.Now,
		}),
		exporter: export.NewExporter(store, d.Now),
		now:      d.Now,
	}
}

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"add":      {"Add a new expense", (*App).add},
		"list":     {"List expenses with filters", (*App).list},
		"edit":     {"Edit an existing expense", (*App).edit},
		"delete":   {"Delete an expense", (*App).delete},
		"search":   {"Search expenses by description", (*App).search},
		"category": {"Manage categories (list, add, delete)", (*App).category},
		"budget":   {"Manage budgets (set, list, delete)", (*App).budget},
		"report":   {"Generate reports (monthly, yearly, category, budget)", (*App).report},
		"summary":  {"Quick summary of this month", (*App).summary},
		"stats":    {"Show database statistics and summary", (*App).statsCmd},
		"export":   {"Export expenses to CSV or JSON", (*App).export},
		"token":    {"Issue an API token", (*App).token},
		"version":  {"Print the version", (*App).version},
	}
}

// Run executes the subcommand named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return usageError("unknown command %q", args[0])
	}
	logger.Get().Debugw("running command", "command", args[0])
	return cmd.run(a, ctx, args[1:])
}

func (a *App) usage() {
	names := []string{
		"add", "list", "edit", "delete", "search", "category", "budget",
		"report", "summary", "stats", "export", "token", "version",
	}
	var b strings.Builder
	b.WriteString("💰 Finance CLI - Personal Finance Manager\n\nUsage: finance [--data-dir DIR] <command> [arguments]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-10s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nExamples:\n")
	b.WriteString("  finance add 45.50 \"Food & Dining\" -d \"Weekly shopping\"\n")
	b.WriteString("  finance list --this-month\n")
	b.WriteString("  finance report monthly --month 2\n")
	fmt.Fprint(a.out, b.String())
}

func (a *App) version(_ context.Context, _ []string) error {
	fmt.Fprintf(a.out, "finance %s\n", Version)
	return nil
}

func usageError(format string, args ...interface{}) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args allowing flags and positional arguments to be mixed, so
// "add 12 Food -d lunch" works like "add -d lunch 12 Food".
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, usageError("%s: %v", fs.Name(), err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if rest[0] == "--" {
			return append(positional, rest[1:]...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// flagSet reports which flags were given explicitly.
func flagSet(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// validate checks v against its binding tags.
func validate(v interface{}) error {
	err := spendvalidator.Engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("invalid %s: %v (%s)", strings.ToLower(fe.Field()), fe.Value(), fe.Tag()))
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err)
}

// optionalDate parses a YYYY-MM-DD flag value. Empty yields nil.
func optionalDate(raw string) (*models.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidDate, "Invalid date format. Use YYYY-MM-DD: "+raw)
	}
	return &d, nil
}

// resolveCategory finds a category by name or id.
func (a *App) resolveCategory(ref string) (*models.Category, error) {
	category, err := a.categories.GetCategoryByName(ref)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, err
	}
	if category, idErr := a.categories.GetCategoryByID(ref); idErr == nil {
		return category, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, fmt.Sprintf("Category '%s' not found", ref))
}

func (a *App) success(msg string) {
	fmt.Fprintln(a.out, a.canvas.Style().Foreground(successColor).Render("✅ "+msg))
}

func (a *App) dim(msg string) {
	fmt.Fprintln(a.out, a.canvas.Muted(msg))
}

func requireYes(yes bool, what string) error {
	if !yes {
		return usageError("refusing to delete %s without --yes", what)
	}
	return nil
}
