package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cashflowpro/forecast-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var exportTracer = otel.Tracer("service/export")

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportService renders a forecast as a downloadable document.
type ExportService struct {
	forecasts *ForecastService
	logger    *zap.Logger
}

// NewExportService creates the export service.
func NewExportService(forecasts *ForecastService, logger *zap.Logger) *ExportService {
	return &ExportService{forecasts: forecasts, logger: logger}
}

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Export runs the forecast and renders it in the requested format.
func (s *ExportService) Export(ctx context.Context, userID string, days int, balance *float64, format string) (*ExportResult, error) {
	ctx, span := exportTracer.Start(ctx, "ExportService.Export")
	defer span.End()

	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatJSON {
		return nil, &domain.ErrValidation{Field: "format", Message: "must be 'csv' or 'json'"}
	}

	resp, err := s.forecasts.Forecast(ctx, userID, days, balance)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("forecast-%s-%dd.%s", resp.AnchorDate, resp.Horizon, format)
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal forecast: %w", err)
		}
		return &ExportResult{ContentType: "application/json", Filename: filename, Data: data}, nil
	default:
		data, err := renderCSV(resp)
		if err != nil {
			return nil, err
		}
		return &ExportResult{ContentType: "text/csv", Filename: filename, Data: data}, nil
	}
}

// renderCSV writes one row per simulated day. Events collapse into a
// single human-readable summary column.
func renderCSV(resp *domain.ForecastResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"date", "starting_balance", "net_change", "ending_balance",
		"is_checkpoint", "is_lowest_point", "has_override", "events",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, day := range resp.Days {
		row := []string{
			day.Date,
			formatMoney(day.StartingBalance),
			formatMoney(day.NetChange),
			formatMoney(day.EndingBalance),
			strconv.FormatBool(day.IsCheckpoint),
			strconv.FormatBool(day.IsLowestPoint),
			strconv.FormatBool(day.HasOverride),
			summarizeEvents(day.Transactions),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func summarizeEvents(events []domain.SimulationTransaction) string {
	if len(events) == 0 {
		return ""
	}
	parts := make([]string, 0, len(events))
	for _, e := range events {
		sign := "+"
		if e.Type == domain.TypeExpense {
			sign = "-"
		}
		parts = append(parts, fmt.Sprintf("%s (%s%s)", e.Name, sign, formatMoney(e.Amount)))
	}
	return strings.Join(parts, "; ")
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
