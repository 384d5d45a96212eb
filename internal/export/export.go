// Package export writes expenses as CSV or JSON.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// MaxRows caps a single export.
const MaxRows = 10000

// CSVHeader is the first record of a CSV export.
var CSVHeader = []string{"Date", "Category", "Description", "Amount", "Payment Method", "Tags"}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", apperrors.ErrUnsupportedExportFormat
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// DefaultFilename names an export taken at now.
func DefaultFilename(f Format, now time.Time) string {
	return fmt.Sprintf("finance_export_%s.%s", now.Format("20060102_150405"), f)
}

// Exporter reads expenses from a Store and encodes them.
type Exporter struct {
	store analytics.Store
	now   func() time.Time
}

// NewExporter creates an Exporter. A nil now uses time.Now.
func NewExporter(store analytics.Store, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{store: store, now: now}
}

// Export writes expenses dated between start and end (either may be nil),
// newest first, and returns how many were written.
func (e *Exporter) Export(ctx context.Context, w io.Writer, f Format, start, end *models.Date) (int, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return 0, err
	}
	if start != nil && end != nil && end.Before(start.Time) {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidDate, "start date is after end date")
	}

	txns, err := e.store.Query(ctx, analytics.ExpenseFilter{Start: start, End: end, Limit: MaxRows})
	if err != nil {
		return 0, err
	}

	if f == FormatJSON {
		err = WriteJSON(w, txns, e.now())
	} else {
		err = WriteCSV(w, txns)
	}
	if err != nil {
		return 0, err
	}
	return len(txns), nil
}

// WriteCSV writes a header and one record per expense. Tags are joined
// with ", ".
func WriteCSV(w io.Writer, txns []analytics.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txns {
		record := []string{
			t.Date.String(),
			t.CategoryName,
			t.Description,
			t.Amount.StringFixed(2),
			t.PaymentMethod,
			strings.Join(t.Tags, ", "),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Document is the JSON export layout.
type Document struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Expenses   []Record  `json:"expenses"`
}

// Record is one expense in a JSON export. Amount keeps two decimal places.
type Record struct {
	ID            string      `json:"id"`
	Date          models.Date `json:"date"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Amount        string      `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	Tags          []string    `json:"tags"`
	IsRecurring   bool        `json:"is_recurring"`
}

// WriteJSON writes an indented Document.
func WriteJSON(w io.Writer, txns []analytics.Transaction, exportedAt time.Time) error {
	doc := Document{
		ExportedAt: exportedAt,
		Count:      len(txns),
		Expenses:   make([]Record, 0, len(txns)),
	}
	for _, t := range txns {
		tags := t.Tags
		if tags == nil {
			tags = []string{}
		}
		doc.Expenses = append(doc.Expenses, Record{
			ID:            t.ID,
			Date:          t.Date,
			Category:      t.CategoryName,
			Description:   t.Description,
			Amount:        t.Amount.StringFixed(2),
			PaymentMethod: t.PaymentMethod,
			Tags:          tags,
			IsRecurring:   t.IsRecurring,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}
