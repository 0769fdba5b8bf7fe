package technician

import (
	"repair-booking/logger"
	technicianModel "repair-booking/models/technician"
	"repair-booking/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TechnicianController serves the technician picker used when confirming
// an appointment
type TechnicianController struct {
	DB *gorm.DB
}

func NewTechnicianController(db *gorm.DB) *TechnicianController {
	return &TechnicianController{DB: db}
}

// Index lists active technicians
func (tc *TechnicianController) Index(c *fiber.Ctx) error {
	var technicians []technicianModel.Technician
	if err := tc.DB.Where("is_active = ?", true).Order("name asc").Find(&technicians).Error; err != nil {
		logger.Error("Failed to list technicians", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Technicians fetched successfully",
		Data: map[string]interface{}{
			"technicians": technicians,
			"total":       len(technicians),
		},
	})
}
