package ports

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// RevenueReportGenerator genera el PDF del resumen de ingresos.
type RevenueReportGenerator interface {
	GenerateRevenueReport(ctx context.Context, company *entity.Company, summary *dto.RevenueSummaryDTO) ([]byte, error)
}
