package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/application/analytics"
	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/testutil/fakes"
)

type captureReport struct {
	company *entity.Company
	summary *dto.RevenueSummaryDTO
}

func (c *captureReport) GenerateRevenueReport(_ context.Context, company *entity.Company, s *dto.RevenueSummaryDTO) ([]byte, error) {
	c.company, c.summary = company, s
	return []byte("%PDF-fake"), nil
}

func record(t *testing.T, uc *analytics.RevenueUseCase, customer, amount, period string) {
	t.Helper()
	require.NoError(t, uc.Record(context.Background(), "c1", dto.CreateRevenueRequest{
		CustomerName: customer,
		Amount:       decimal.RequireFromString(amount),
		Period:       period,
	}))
}

func TestRevenueSummary(t *testing.T) {
	db := fakes.NewDB()
	uc := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db}, fakes.CompanyRepo{DB: db}, nil)

	record(t, uc, "Globex", "1000", "2025-01")
	record(t, uc, "Globex", "500", "2025-03")
	record(t, uc, "Initech", "500", "2025-03")
	record(t, uc, "Fuera de rango", "999", "2024-12")

	s, err := uc.GetSummary(context.Background(), "c1", dto.RevenueRangeRequest{From: "2025-01", To: "2025-04"})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(2000).Equal(s.Total))
	assert.True(t, decimal.NewFromInt(500).Equal(s.MonthlyAverage), "4 meses en el rango")
	require.Len(t, s.Monthly, 4)
	assert.Equal(t, "2025-02", s.Monthly[1].Period)
	assert.True(t, s.Monthly[1].Amount.IsZero(), "los meses sin datos van en cero")
	assert.True(t, decimal.NewFromInt(1000).Equal(s.Monthly[2].Amount))

	require.Len(t, s.TopCustomers, 2)
	assert.Equal(t, "Globex", s.TopCustomers[0].CustomerName)
	assert.True(t, decimal.NewFromInt(75).Equal(s.TopCustomers[0].Share))
	assert.Equal(t, 2, s.TopCustomers[0].Months)
	assert.Equal(t, time.Date(2025, 4, 30, 23, 59, 59, 999999999, time.UTC), s.To)
}

func TestRevenueSummary_SinDatos(t *testing.T) {
	db := fakes.NewDB()
	uc := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db}, fakes.CompanyRepo{DB: db}, nil)

	s, err := uc.GetSummary(context.Background(), "c1", dto.RevenueRangeRequest{})
	require.NoError(t, err)
	assert.True(t, s.Total.IsZero())
	assert.Len(t, s.Monthly, 12)
	assert.Empty(t, s.TopCustomers)
}

func TestRevenueSummary_Errores(t *testing.T) {
	db := fakes.NewDB()
	uc := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db}, fakes.CompanyRepo{DB: db}, nil)
	ctx := context.Background()

	_, err := uc.GetSummary(ctx, "c1", dto.RevenueRangeRequest{From: "2025-05", To: "2025-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GetSummary(ctx, "c1", dto.RevenueRangeRequest{From: "2020-01", To: "2025-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GetSummary(ctx, "c1", dto.RevenueRangeRequest{From: "enero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GetSummary(ctx, "", dto.RevenueRangeRequest{})
	assert.ErrorIs(t, err, domain.ErrNoCompany)

	failing := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db, Err: fakes.ErrBoom}, fakes.CompanyRepo{DB: db}, nil)
	_, err = failing.GetSummary(ctx, "c1", dto.RevenueRangeRequest{})
	assert.ErrorIs(t, err, fakes.ErrBoom)
}

func TestRevenueSummary_LimiteDeMeses(t *testing.T) {
	db := fakes.NewDB()
	uc := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db}, fakes.CompanyRepo{DB: db}, nil)
	ctx := context.Background()

	s, err := uc.GetSummary(ctx, "c1", dto.RevenueRangeRequest{From: "2023-01", To: "2025-12"})
	require.NoError(t, err)
	assert.Len(t, s.Monthly, 36)

	_, err = uc.GetSummary(ctx, "c1", dto.RevenueRangeRequest{From: "2023-01", To: "2026-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "37 meses supera el máximo")
}

func TestRevenueRecord_Validaciones(t *testing.T) {
	uc := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: fakes.NewDB()}, nil, nil)
	ctx := context.Background()

	err := uc.Record(ctx, "c1", dto.CreateRevenueRequest{CustomerName: "x", Amount: decimal.NewFromInt(-1), Period: "2025-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = uc.Record(ctx, "c1", dto.CreateRevenueRequest{CustomerName: "x", Amount: decimal.NewFromInt(1), Period: "01/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = uc.Record(ctx, "c1", dto.CreateRevenueRequest{Amount: decimal.NewFromInt(1), Period: "2025-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRevenueReport(t *testing.T) {
	db := fakes.NewDB()
	db.Companies["c1"] = &entity.Company{ID: "c1", Name: "Acme"}
	rep := &captureReport{}
	uc := analytics.NewRevenueUseCase(fakes.RevenueRepo{DB: db}, fakes.CompanyRepo{DB: db}, rep)
	record(t, uc, "Globex", "10", "2025-01")

	pdf, err := uc.GenerateReport(context.Background(), "c1", dto.RevenueRangeRequest{From: "2025-01", To: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Equal(t, "Acme", rep.company.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(rep.summary.Total))

	_, err = uc.GenerateReport(context.Background(), "c9", dto.RevenueRangeRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Febrero 2026", analytics.MonthLabel(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
}
