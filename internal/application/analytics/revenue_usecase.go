// Package analytics contiene los casos de uso de reportes de negocio: el resumen de ingresos
// por cliente del portal de manager y su informe PDF.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

const (
	topCustomers  = 5  // clientes en el ranking del resumen
	defaultMonths = 12 // rango por defecto
	maxMonths     = 36
	periodLayout  = "2006-01"
)

var hundred = decimal.NewFromInt(100)

// RevenueUseCase genera el resumen de ingresos de una empresa.
//
// Fuente de datos: RevenueRepository (consultas read-only).
type RevenueUseCase struct {
	revenueRepo repository.RevenueRepository
	companyRepo repository.CompanyRepository
	reports     ports.RevenueReportGenerator
	now         func() time.Time
}

// NewRevenueUseCase construye el caso de uso. reports puede ser nil si no se sirven PDFs.
func NewRevenueUseCase(revenueRepo repository.RevenueRepository, companyRepo repository.CompanyRepository, reports ports.RevenueReportGenerator) *RevenueUseCase {
	return &RevenueUseCase{revenueRepo: revenueRepo, companyRepo: companyRepo, reports: reports, now: time.Now}
}

// Record registra el ingreso mensual de un cliente.
func (uc *RevenueUseCase) Record(ctx context.Context, companyID string, in dto.CreateRevenueRequest) error {
	if companyID == "" {
		return domain.ErrNoCompany
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customer_name es obligatorio", domain.ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount debe ser mayor que cero", domain.ErrInvalidInput)
	}
	period, err := time.Parse(periodLayout, in.Period)
	if err != nil {
		return fmt.Errorf("%w: period debe tener formato YYYY-MM", domain.ErrInvalidInput)
	}
	return uc.revenueRepo.Create(ctx, &entity.CustomerRevenue{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CustomerName: name,
		Amount:       in.Amount.Round(2),
		Period:       period,
		CreatedAt:    uc.now(),
	})
}

// GetSummary construye el RevenueSummaryDTO para la empresa y el rango indicados.
//
// Tres llamadas en paralelo:
//  1. GetTotal        → Total + MonthlyAverage
//  2. GetMonthly      → serie mensual (los meses sin datos van en cero)
//  3. GetTopCustomers → ranking con participación porcentual
func (uc *RevenueUseCase) GetSummary(ctx context.Context, companyID string, req dto.RevenueRangeRequest) (*dto.RevenueSummaryDTO, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	from, to, err := uc.parseRange(req)
	if err != nil {
		return nil, err
	}
	// to es el primer día del último mes; la consulta cubre el mes completo.
	end := to.AddDate(0, 1, 0).Add(-time.Nanosecond)

	type totalResult struct {
		total decimal.Decimal
		err   error
	}
	type monthlyResult struct {
		rows []repository.MonthlyRevenueResult
		err  error
	}
	type topResult struct {
		rows []repository.CustomerRevenueResult
		err  error
	}

	totalCh := make(chan totalResult, 1)
	monthlyCh := make(chan monthlyResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		t, err := uc.revenueRepo.GetTotal(ctx, companyID, from, end)
		totalCh <- totalResult{t, err}
	}()
	go func() {
		rows, err := uc.revenueRepo.GetMonthly(ctx, companyID, from, end)
		monthlyCh <- monthlyResult{rows, err}
	}()
	go func() {
		rows, err := uc.revenueRepo.GetTopCustomers(ctx, companyID, from, end, topCustomers)
		topCh <- topResult{rows, err}
	}()

	total := <-totalCh
	monthly := <-monthlyCh
	top := <-topCh

	if total.err != nil {
		return nil, fmt.Errorf("revenue: total: %w", total.err)
	}
	if monthly.err != nil {
		return nil, fmt.Errorf("revenue: serie mensual: %w", monthly.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("revenue: top clientes: %w", top.err)
	}

	byPeriod := make(map[string]decimal.Decimal, len(monthly.rows))
	for _, m := range monthly.rows {
		byPeriod[m.Period.Format(periodLayout)] = m.Amount
	}
	months := 0
	series := make([]dto.MonthlyRevenueDTO, 0, defaultMonths)
	for p := from; !p.After(to); p = p.AddDate(0, 1, 0) {
		key := p.Format(periodLayout)
		amt, ok := byPeriod[key]
		if !ok {
			amt = decimal.Zero
		}
		series = append(series, dto.MonthlyRevenueDTO{Period: key, Amount: amt.Round(2)})
		months++
	}

	customers := make([]dto.TopCustomerDTO, 0, len(top.rows))
	for _, c := range top.rows {
		share := decimal.Zero
		if total.total.IsPositive() {
			share = c.Amount.Div(total.total).Mul(hundred).Round(2)
		}
		customers = append(customers, dto.TopCustomerDTO{
			CustomerName: c.CustomerName,
			Amount:       c.Amount.Round(2),
			Share:        share,
			Months:       c.Months,
		})
	}

	return &dto.RevenueSummaryDTO{
		CompanyID:      companyID,
		From:           from,
		To:             end,
		Total:          total.total.Round(2),
		MonthlyAverage: total.total.Div(decimal.NewFromInt(int64(months))).Round(2),
		Monthly:        series,
		TopCustomers:   customers,
	}, nil
}

// GenerateReport arma el resumen y lo entrega al generador de PDF.
func (uc *RevenueUseCase) GenerateReport(ctx context.Context, companyID string, req dto.RevenueRangeRequest) ([]byte, error) {
	if uc.reports == nil {
		return nil, fmt.Errorf("revenue: generador de informes no configurado")
	}
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	summary, err := uc.GetSummary(ctx, companyID, req)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateRevenueReport(ctx, company, summary)
}

// parseRange devuelve el primer día del mes inicial y del mes final.
func (uc *RevenueUseCase) parseRange(req dto.RevenueRangeRequest) (time.Time, time.Time, error) {
	now := uc.now().UTC()
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if req.To != "" {
		t, err := time.Parse(periodLayout, req.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to debe tener formato YYYY-MM", domain.ErrInvalidInput)
		}
		to = t
	}
	from := to.AddDate(0, -(defaultMonths - 1), 0)
	if req.From != "" {
		f, err := time.Parse(periodLayout, req.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from debe tener formato YYYY-MM", domain.ErrInvalidInput)
		}
		from = f
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	// rango inclusivo: from..to abarca maxMonths buckets como máximo
	if from.AddDate(0, maxMonths-1, 0).Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: el rango no puede superar %d meses", domain.ErrInvalidInput, maxMonths)
	}
	return from, to, nil
}

// MonthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func MonthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
