package appointment

import (
	"fmt"
	"repair-booking/logger"
	"repair-booking/middleware"
	"repair-booking/services/transition"
	"repair-booking/types"
	appointmentTypes "repair-booking/types/appointment"
	"repair-booking/utils"

	"github.com/gofiber/fiber/v2"
)

// StoreFeedback attaches a one-time rating to a completed appointment
func (ac *AppointmentController) StoreFeedback(c *fiber.Ctx) error {
	var req appointmentTypes.FeedbackRequest
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

	role, err := transition.ParseRole(middleware.RoleFromContext(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Unknown actor role",
			Data:    nil,
		})
	}

	updated, err := ac.Svc.AttachFeedback(c.Context(), c.Params("id"), role, middleware.ActorFromContext(c), req.Rating, req.Text)
	if err != nil {
		return ac.fail(c, err, "Failed to attach feedback")
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	logger.Success(fmt.Sprintf("Feedback attached to appointment %s", updated.ID))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Feedback submitted successfully",
		Data:    updated,
	})
}
