package user

import (
	"errors"
	"repair-booking/database"
	"repair-booking/logger"
	"repair-booking/middleware"
	"repair-booking/models/user"
	"repair-booking/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetUserInfo(c *fiber.Ctx) error {
	uid := middleware.ActorFromContext(c)
	if uid == "" {
		response := types.ApiResponse{
			Message: "Invalid token data",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		}
		return c.JSON(&response)
	}

	var user user.User
	if err := database.DB.Where("uuid = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found", err)
			response := types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusNotFound,
				Data:    nil,
			}
			return c.JSON(&response)
		}
		logger.Error("Error fetching user", err)
		response := types.ApiResponse{
			Message: "Error fetching user",
			Status:  fiber.StatusInternalServerError,
			Data:    nil,
		}
		return c.JSON(&response)
	}

	// Construct user info response
	userInfo := map[string]interface{}{
		"uuid":           user.Uuid,
		"username":       user.Username,
		"legal_name":     user.LegalName,
		"phone":          user.Phone,
		"phone_verified": user.PhoneVerified,
		"email_verified": user.EmailVerified,
		"avatar":         user.Avatar,
		"role":           user.Role,
		"created_at":     user.CreatedAt.Format("2006-01-02 15:04:05"),
		"updated_at":     user.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	// Send successful response
	response := types.ApiResponse{
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		Data:    userInfo,
	}
	logger.Success("User fetched successfully")
	return c.JSON(&response)
}
