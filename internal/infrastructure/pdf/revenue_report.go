// Package pdf genera el informe de ingresos de una empresa y extrae texto de los PDF subidos.
//
// Layout del informe (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto  │  Período + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Total del período │ Promedio mensual │ N° de meses    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA MENSUAL: Mes | Ingresos                               │
//	│  TABLA TOP CLIENTES: Cliente | Meses | Ingresos | %          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadportal-api/internal/application/analytics"
	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

var _ ports.RevenueReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorBand    = &props.Color{Red: 235, Green: 241, Blue: 247}
)

// MarotoReportGenerator implementa RevenueReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

// GenerateRevenueReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateRevenueReport(
	_ context.Context,
	company *entity.Company,
	summary *dto.RevenueSummaryDTO,
) ([]byte, error) {
	if company == nil || summary == nil {
		return nil, fmt.Errorf("pdf: empresa y resumen son obligatorios")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de ingresos - "+company.Name, true).
		WithAuthor("LeadPortal", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, summary, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("INGRESOS MENSUALES"))
	m.AddRows(tableHeader([]string{"Mes", "Ingresos"}, []int{8, 4}))
	m.AddRows(monthlyRows(summary.Monthly)...)

	m.AddRows(row.New(4))
	m.AddRows(sectionTitle("PRINCIPALES CLIENTES"))
	m.AddRows(tableHeader([]string{"Cliente", "Meses", "Ingresos", "% del total"}, []int{6, 1, 3, 2}))
	m.AddRows(topCustomerRows(summary.TopCustomers)...)

	m.AddRows(row.New(6))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Montos en la moneda en que fueron reportados. Generado automáticamente por LeadPortal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company *entity.Company, s *dto.RevenueSummaryDTO, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(strings.Join(nonEmptyParts(company.ContactEmail, company.City, company.Country), "  |  "),
				props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INFORME DE INGRESOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(analytics.MonthLabel(s.From)+" - "+analytics.MonthLabel(s.To), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func kpiRow(s *dto.RevenueSummaryDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Align: align.Center, Top: 2}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Align: align.Center, Top: 7}),
		)
	}
	return row.New(18).Add(
		kpi("Total del período", "$"+formatMoney(s.Total)),
		kpi("Promedio mensual", "$"+formatMoney(s.MonthlyAverage)),
		kpi("Meses", fmt.Sprintf("%d", len(s.Monthly))),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorBand})
}

func monthlyRows(monthly []dto.MonthlyRevenueDTO) []core.Row {
	rows := make([]core.Row, 0, len(monthly))
	for _, mth := range monthly {
		label := mth.Period
		if t, err := time.Parse("2006-01", mth.Period); err == nil {
			label = analytics.MonthLabel(t)
		}
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(label, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New("$"+formatMoney(mth.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func topCustomerRows(top []dto.TopCustomerDTO) []core.Row {
	if len(top) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin ingresos registrados en el período.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		))}
	}
	rows := make([]core.Row, 0, len(top))
	for _, c := range top {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(c.CustomerName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", c.Months), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+formatMoney(c.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(c.Share.StringFixed(2)+"%", props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmptyParts(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"-"}
	}
	return out
}

// formatMoney separa miles con punto y decimales con coma, a 2 decimales.
// Ej: 1234567.5 → "1.234.567,50", -25000 → "-25.000,00"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
