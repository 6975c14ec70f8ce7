package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
)

// featureChecker es el contrato mínimo que necesita el middleware para verificar flags.
// Lo implementa *usecase.FeatureService.
type featureChecker interface {
	IsEnabled(ctx context.Context, companyID, feature string) (bool, error)
}

// RequireFeature devuelve un middleware Fiber que verifica si la empresa de la petición
// tiene el flag activo. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 FEATURE_DISABLED → flag apagado o empresa inexistente.
//   - 503 FEATURE_CHECK_FAILED → fallo de infraestructura al consultar caché o DB.
//   - 403 NO_COMPANY → la sesión no tiene empresa asociada.
func RequireFeature(feature string, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := targetCompany(c)
		if companyID == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NO_COMPANY",
				Message: "el usuario no tiene empresa asociada",
			})
		}

		enabled, err := checker.IsEnabled(c.Context(), companyID, feature)
		if err != nil {
			c.Locals(localError, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FEATURE_CHECK_FAILED",
				Message: "no se pudo verificar la funcionalidad, intente más tarde",
			})
		}

		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "la funcionalidad '" + feature + "' no está habilitada para esta empresa",
			})
		}

		return c.Next()
	}
}
