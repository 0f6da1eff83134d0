package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"smartBite/internal/modules/reservations/domain"
	"smartBite/internal/shared/auth"
)

// ExportFormat selects the serialization of an export snapshot.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// ParseExportFormat defaults to CSV when raw is empty.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ExportCSV):
		return ExportCSV, nil
	case string(ExportJSON):
		return ExportJSON, nil
	default:
		return "", domain.Invalid("format", "format must be csv or json")
	}
}

// ContentType is the MIME type of the rendered snapshot.
func (f ExportFormat) ContentType() string {
	if f == ExportJSON {
		return "application/json"
	}
	return "text/csv"
}

// FileName suggests a download name for the snapshot taken at now.
func (f ExportFormat) FileName(now time.Time) string {
	return "reservations-" + now.UTC().Format("20060102-150405") + "." + string(f)
}

var exportColumns = []string{
	"confirmationCode", "date", "time", "partySize", "customerName",
	"customerEmail", "customerPhone", "status", "specialRequests", "createdAt",
}

// Export writes the reservations matching filter to w. It never mutates the store.
func (m *AdminManager) Export(ctx context.Context, identity auth.Identity, filter domain.AdminFilter, format ExportFormat, w io.Writer) (int, error) {
	items, err := m.Search(ctx, identity, filter)
	if err != nil {
		return 0, err
	}
	switch format {
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return 0, fmt.Errorf("encode json export: %w", err)
		}
	case ExportCSV:
		if err := writeCSV(w, items); err != nil {
			return 0, err
		}
	default:
		return 0, domain.Invalid("format", "format must be csv or json")
	}
	return len(items), nil
}

func writeCSV(w io.Writer, items []domain.Reservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range items {
		record := []string{
			r.ConfirmationCode,
			r.Date,
			r.Time,
			strconv.Itoa(r.PartySize),
			csvText(r.CustomerName),
			csvText(r.CustomerEmail),
			csvText(r.CustomerPhone),
			string(r.Status),
			csvText(r.SpecialRequests),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// csvText prefixes guest-supplied text that a spreadsheet would evaluate as a formula.
func csvText(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}
