package appointment

import (
	"fmt"
	"repair-booking/logger"
	"repair-booking/middleware"
	"repair-booking/services/transition"
	"repair-booking/types"
	"repair-booking/utils"

	"github.com/gofiber/fiber/v2"
)

// Destroy moves an appointment into the recycle bin
func (ac *AppointmentController) Destroy(c *fiber.Ctx) error {
	role, err := transition.ParseRole(middleware.RoleFromContext(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Unknown actor role",
			Data:    nil,
		})
	}

	id := c.Params("id")
	if err := ac.Svc.SoftDelete(c.Context(), id, role, middleware.ActorFromContext(c)); err != nil {
		return ac.fail(c, err, "Failed to delete appointment")
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	logger.Success(fmt.Sprintf("Appointment %s moved to recycle bin", id))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment moved to recycle bin",
		Data:    nil,
	})
}

// RecycleBin lists soft-deleted appointments
func (ac *AppointmentController) RecycleBin(c *fiber.Ctx) error {
	items, err := ac.Svc.RecycleBin(c.Context())
	if err != nil {
		return ac.fail(c, err, "Failed to list recycle bin")
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Recycle bin fetched successfully",
		Data: map[string]interface{}{
			"appointments": items,
			"total":        len(items),
		},
	})
}

// Restore brings a soft-deleted appointment back to the live listing
func (ac *AppointmentController) Restore(c *fiber.Ctx) error {
	role, err := transition.ParseRole(middleware.RoleFromContext(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Unknown actor role",
			Data:    nil,
		})
	}

	id := c.Params("id")
	if err := ac.Svc.Restore(c.Context(), id, role, middleware.ActorFromContext(c)); err != nil {
		return ac.fail(c, err, "Failed to restore appointment")
	}

	logger.Success(fmt.Sprintf("Appointment %s restored", id))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment restored successfully",
		Data:    nil,
	})
}

// Purge permanently removes a recycle-bin entry
func (ac *AppointmentController) Purge(c *fiber.Ctx) error {
	role, err := transition.ParseRole(middleware.RoleFromContext(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Unknown actor role",
			Data:    nil,
		})
	}

	id := c.Params("id")
	if err := ac.Svc.Purge(c.Context(), id, role); err != nil {
		return ac.fail(c, err, "Failed to purge appointment")
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	logger.Success(fmt.Sprintf("Appointment %s purged permanently", id))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment deleted permanently",
		Data:    nil,
	})
}
