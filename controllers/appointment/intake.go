package appointment

import (
	"errors"
	"repair-booking/logger"
	serviceModel "repair-booking/models/service"
	"repair-booking/services/intake"
	"repair-booking/types"
	appointmentTypes "repair-booking/types/appointment"

	"github.com/gofiber/fiber/v2"
)

// SuggestService maps a free-text problem description onto the service
// catalog. When Gemini is not configured the endpoint degrades to 503 and
// the booking form falls back to manual selection.
func (ac *AppointmentController) SuggestService(c *fiber.Ctx) error {
	var req appointmentTypes.IntakeSuggestRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var catalog []serviceModel.Service
	if err := ac.DB.Where("is_active = ?", true).Order("name asc").Find(&catalog).Error; err != nil {
		logger.Error("Failed to load service catalog", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	suggestion, err := intake.NewAnalyzer(catalog).Suggest(c.Context(), req.Description)
	if err != nil {
		if errors.Is(err, intake.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
				Status:  fiber.StatusServiceUnavailable,
				Message: "Suggestion service is not configured",
				Data:    nil,
			})
		}
		logger.Error("Failed to generate service suggestion", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Failed to generate suggestion",
			Data:    nil,
		})
	}

	logger.Success("Service suggestion generated")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Suggestion generated successfully",
		Data:    suggestion,
	})
}
