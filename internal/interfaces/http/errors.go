package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// policyErrorMessage se muestra en lugar del detalle de una recursión RLS.
const policyErrorMessage = "error de políticas de acceso; contacte a soporte"

// httpError estado y código HTTP de un error de dominio.
type httpError struct {
	status int
	code   string
}

// classify traduce un error de dominio a estado y código. El orden importa:
// un timeout de un servicio externo es 504 y no 502.
func classify(err error) httpError {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return httpError{fiber.StatusBadRequest, "VALIDATION"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return httpError{fiber.StatusNotFound, "NOT_FOUND"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return httpError{fiber.StatusConflict, "EMAIL_EXISTS"}
	case errors.Is(err, domain.ErrDuplicate):
		return httpError{fiber.StatusConflict, "DUPLICATE"}
	case errors.Is(err, domain.ErrConflict):
		return httpError{fiber.StatusConflict, "CONFLICT"}
	case errors.Is(err, domain.ErrUnauthorized):
		return httpError{fiber.StatusUnauthorized, "UNAUTHORIZED"}
	case errors.Is(err, domain.ErrFeatureDisabled):
		return httpError{fiber.StatusForbidden, "FEATURE_DISABLED"}
	case errors.Is(err, domain.ErrNoCompany):
		return httpError{fiber.StatusForbidden, "NO_COMPANY"}
	case errors.Is(err, domain.ErrForbidden):
		return httpError{fiber.StatusForbidden, "FORBIDDEN"}
	case errors.Is(err, domain.ErrPolicyRecursion):
		return httpError{fiber.StatusInternalServerError, "POLICY_ERROR"}
	case errors.Is(err, domain.ErrUpstream) && errors.Is(err, context.DeadlineExceeded):
		return httpError{fiber.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"}
	case errors.Is(err, domain.ErrUpstream):
		return httpError{fiber.StatusBadGateway, "UPSTREAM_ERROR"}
	case errors.Is(err, context.DeadlineExceeded):
		return httpError{fiber.StatusGatewayTimeout, "TIMEOUT"}
	default:
		return httpError{fiber.StatusInternalServerError, "INTERNAL"}
	}
}

// errorMessage texto seguro para el cliente: los 500 no exponen detalles internos.
func errorMessage(he httpError, err error) string {
	switch he.code {
	case "POLICY_ERROR":
		return policyErrorMessage
	case "INTERNAL":
		return "error interno del servidor"
	default:
		return err.Error()
	}
}

// writeError responde con el dto.ErrorResponse que corresponde al error.
func writeError(c *fiber.Ctx, err error) error {
	he := classify(err)
	if he.status >= fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(he.status).JSON(dto.ErrorResponse{Code: he.code, Message: errorMessage(he, err)})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
	})
}

const localError = "handler_error"

// RequestLogger registra cada petición con zerolog. Los 5xx incluyen el error original
// que writeError dejó en Locals y que nunca llega al cliente.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			if herr, ok := c.Locals(localError).(error); ok {
				ev = ev.Err(herr)
			} else if err != nil {
				ev = ev.Err(err)
			}
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}

var (
	errQuery     = fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput)
	errNoCompany = domain.ErrNoCompany
)
