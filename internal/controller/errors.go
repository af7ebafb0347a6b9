package controller

import (
	"grounded-qa-be/internal/pkg/serverutils"
	"grounded-qa-be/internal/service"
	"grounded-qa-be/pkg/research"

	"github.com/gofiber/fiber/v2"
)

// ErrorMappings is the status table for serverutils.ErrorHandlerMiddleware.
func ErrorMappings() []serverutils.StatusMapping {
	return []serverutils.StatusMapping{
		{Err: research.ErrRefinementUnavailable, Status: fiber.StatusBadGateway},
		{Err: service.ErrSessionBusy, Status: fiber.StatusConflict},
		{Err: service.ErrSessionNotFound, Status: fiber.StatusNotFound},
		{Err: service.ErrEmptyQuestion, Status: fiber.StatusBadRequest},
	}
}
