package server

import (
	"errors"
	"log/slog"
	"strconv"

	"socialnet/internal/models"
	"socialnet/internal/observability"
	"socialnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// parseOptionalID reads a positive numeric path parameter, falling back to def when absent.
func parseOptionalID(c *fiber.Ctx, name string, def uint) (uint, error) {
	if c.Params(name) == "" {
		return def, nil
	}
	return parseID(c, name)
}

// parsePage reads an optional 1-indexed page parameter.
func parsePage(c *fiber.Ctx, name string) (int, error) {
	raw := c.Params(name)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, models.NewValidationError("page must be a positive integer")
	}
	return page, nil
}

// currentUserID returns the authenticated caller set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func currentClaims(c *fiber.Ctx) *service.Claims {
	claims, _ := c.Locals("claims").(*service.Claims)
	return claims
}

// statusForCode maps AppError codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// mapServiceError writes err with the status that matches its AppError code.
// Anything that is not an AppError is treated as internal.
func (s *Server) mapServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	status := statusForCode(appErr.Code)
	if status >= fiber.StatusInternalServerError {
		observability.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("code", appErr.Code),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, appErr)
}
