package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"spendwise/internal/export"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/money"
	"spendwise/internal/reports"
	"spendwise/internal/services"
)

func (a *App) report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("usage: finance report <monthly|yearly|category|budget>")
	}
	kind, err := reports.ParseKind(args[0])
	if err != nil {
		return err
	}
	today := models.DateOf(a.now())

	fs := newFlagSet("report " + string(kind))
	year := fs.Int("y", today.Year(), "year")
	fs.IntVar(year, "year", today.Year(), "year")
	month := fs.Int("m", int(today.Month()), "month (1-12)")
	fs.IntVar(month, "month", int(today.Month()), "month (1-12)")
	noCharts := fs.Bool("no-charts", false, "hide charts")
	days := fs.Int("days", reports.CategoryReportDays, "days to include in a category report")
	startDate := fs.String("start-date", "", "category report start (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "category report end (YYYY-MM-DD)")
	pos, err := parse(fs, args[1:])
	if err != nil {
		return err
	}

	if *month < 1 || *month > 12 {
		return usageError("month must be between 1 and 12")
	}
	req := reports.Request{Kind: kind, Year: *year, Month: time.Month(*month), ShowCharts: !*noCharts}

	if kind == reports.KindCategory {
		if len(pos) != 1 {
			return usageError("usage: finance report category NAME [--days N] [--start-date YYYY-MM-DD] [--end-date YYYY-MM-DD]")
		}
		category, err := a.resolveCategory(pos[0])
		if err != nil {
			return err
		}
		req.CategoryID = category.ID
		if req.End, err = optionalDate(*endDate); err != nil {
			return err
		}
		if req.Start, err = optionalDate(*startDate); err != nil {
			return err
		}
		if req.Start == nil && flagSet(fs)["days"] {
			if *days < 1 {
				return usageError("--days must be positive")
			}
			end := today
			if req.End != nil {
				end = *req.End
			}
			start := end.AddDays(-*days)
			req.Start = &start
		}
	}

	return a.reports.Generate(ctx, a.out, req)
}

func (a *App) summary(ctx context.Context, _ []string) error {
	return a.reports.Summary(ctx, a.out)
}

func (a *App) statsCmd(ctx context.Context, _ []string) error {
	if err := a.reports.Summary(ctx, a.out); err != nil {
		return err
	}
	stats, err := a.stats.GetStats()
	if err != nil {
		return err
	}

	first, last := "N/A", "N/A"
	if stats.FirstExpense != nil {
		first = stats.FirstExpense.String()
	}
	if stats.LastExpense != nil {
		last = stats.LastExpense.String()
	}
	lines := []string{
		"Driver: " + stats.Driver,
	}
	if stats.DatabasePath != "" {
		lines = append(lines,
			"Database: "+stats.DatabasePath,
			"Size: "+humanize.Bytes(uint64(stats.DatabaseBytes)))
	}
	lines = append(lines,
		fmt.Sprintf("Expenses: %s (%s total)", humanize.Comma(stats.TotalExpenses), a.canvas.Money(money.FromCents(stats.TotalCents))),
		fmt.Sprintf("Categories: %d", stats.TotalCategories),
		a.canvas.Muted(fmt.Sprintf("Date Range: %s to %s", first, last)),
	)
	fmt.Fprintln(a.out, a.canvas.Panel("Database Info", strings.Join(lines, "\n")))
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	formatFlag := fs.String("f", string(export.FormatCSV), "csv or json")
	fs.StringVar(formatFlag, "format", string(export.FormatCSV), "csv or json")
	output := fs.String("o", "", "output file (- for stdout)")
	fs.StringVar(output, "output", "", "output file (- for stdout)")
	startDate := fs.String("start-date", "", "start date (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "end date (YYYY-MM-DD)")
	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) > 1 {
		return usageError("usage: finance export [csv|json] [-o FILE] [--start-date YYYY-MM-DD] [--end-date YYYY-MM-DD]")
	}
	raw := *formatFlag
	if len(pos) == 1 {
		raw = pos[0]
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return err
	}
	start, err := optionalDate(*startDate)
	if err != nil {
		return err
	}
	end, err := optionalDate(*endDate)
	if err != nil {
		return err
	}

	if *output == "-" {
		_, err := a.exporter.Export(ctx, a.out, format, start, end)
		return err
	}

	path := *output
	if path == "" {
		path = export.DefaultFilename(format, a.now())
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	n, err := a.exporter.Export(ctx, f, format, start, end)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	a.success(fmt.Sprintf("Exported %d expenses to %s", n, path))
	if info, err := os.Stat(path); err == nil {
		a.dim("File size: " + humanize.Bytes(uint64(info.Size())))
	}
	a.audit.Log(services.SourceCLI, "EXPORT", "expense", "",
		map[string]interface{}{"format": string(format), "count": n, "path": path})
	return nil
}

func (a *App) token(_ context.Context, args []string) error {
	fs := newFlagSet("token")
	subject := fs.String("subject", "cli", "token subject")
	ttl := fs.Duration("ttl", a.cfg.JWTExpirationDur, "token lifetime")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *ttl <= 0 {
		return usageError("--ttl must be positive")
	}

	signed, err := middleware.IssueToken(a.cfg.JWTSecret, *subject, *ttl, a.now())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, signed)
	return nil
}
