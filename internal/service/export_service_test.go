package service_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/service"

	"go.uber.org/zap"
)

func newExportService(t *testing.T) *service.ExportService {
	t.Helper()
	day12 := 12
	rules := &fakeRuleStore{rules: []domain.BudgetRule{{
		ID:            "r1",
		Name:          "Gym",
		Amount:        80,
		Type:          domain.TypeExpense,
		Frequency:     domain.FreqMonthly,
		RecurrenceDay: &day12,
		StartDate:     "2026-01-01",
		IsActive:      true,
	}}}
	forecasts := newForecastService(rules, &fakeTransactionStore{}, &fakeCheckpointStore{}, &fakeCardStore{}, newFakeCache())
	return service.NewExportService(forecasts, zap.NewNop())
}

func TestExportCSV(t *testing.T) {
	svc := newExportService(t)

	res, err := svc.Export(context.Background(), "u1", 5, floatPtr(1000), "csv")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.ContentType != "text/csv" {
		t.Errorf("content type = %s, want text/csv", res.ContentType)
	}
	if !strings.HasSuffix(res.Filename, ".csv") {
		t.Errorf("filename = %s, want .csv suffix", res.Filename)
	}

	records, err := csv.NewReader(strings.NewReader(string(res.Data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 6 { // header + 5 days
		t.Fatalf("rows = %d, want 6", len(records))
	}
	if records[0][0] != "date" || records[0][7] != "events" {
		t.Errorf("unexpected header: %v", records[0])
	}
}

func TestExportJSON(t *testing.T) {
	svc := newExportService(t)

	res, err := svc.Export(context.Background(), "u1", 5, floatPtr(1000), "json")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.ContentType != "application/json" {
		t.Errorf("content type = %s, want application/json", res.ContentType)
	}

	var resp domain.ForecastResponse
	if err := json.Unmarshal(res.Data, &resp); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(resp.Days) != 5 {
		t.Errorf("days = %d, want 5", len(resp.Days))
	}
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newExportService(t)

	_, err := svc.Export(context.Background(), "u1", 5, floatPtr(1000), "xml")
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
