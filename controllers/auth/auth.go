package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"repair-booking/database"
	httpServices "repair-booking/httpServices/sso"
	"repair-booking/logger"
	"repair-booking/models/user"
	"repair-booking/types"
	"repair-booking/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	db             *gorm.DB
	httpService    *httpServices.SSOClient
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(service *httpServices.SSOClient, db *gorm.DB, async_logger *logger.AsyncLogger) *AuthController {
	return &AuthController{httpService: service, db: db, loggerInstance: async_logger}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: false,
		Secure:   isProduction, // Only secure in production (HTTPS)
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		response := types.ApiResponse{
			Message: fmt.Errorf("Error parsing request body: %v", err).Error(),
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		}
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	// Make call to external API through the service
	loginResponse, err := h.httpService.RequestLoginUser(types.LoginRequest{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		logger.Error("Failed to login user", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Message: "Failed to login user",
			Status:  fiber.StatusBadGateway,
		})
	}

	currentTime := time.Now().Format("2006-01-02 03:04:05 PM")

	// Sync the SSO identity into the local cache so listings can show
	// names and roles without another SSO round trip.
	if loginResponse.Status == "success" && loginResponse.User.UUID != "" {
		var existingUser user.User
		result := database.DB.Where("uuid = ?", loginResponse.User.UUID).First(&existingUser)

		if result.Error != nil {
			newUser := user.User{
				Uuid:      loginResponse.User.UUID,
				Username:  loginResponse.User.Username,
				Phone:     loginResponse.User.PhoneNumber,
				LegalName: loginResponse.User.LegalName,
				Role:      loginResponse.User.Role,
			}

			if err := database.DB.Create(&newUser).Error; err != nil {
				logger.Error("Failed to create user in local database", err)
				// Continue with login even if local database sync fails
			} else {
				logger.Success("User created in local database successfully. UUID: " + newUser.Uuid)
			}
		} else if existingUser.Role != loginResponse.User.Role || existingUser.LegalName != loginResponse.User.LegalName {
			existingUser.Role = loginResponse.User.Role
			existingUser.LegalName = loginResponse.User.LegalName
			if err := database.DB.Save(&existingUser).Error; err != nil {
				logger.Error("Failed to refresh user in local database", err)
			}
		}
	}

	// Set HTTP-only secure cookies for access and refresh tokens
	if loginResponse.Access != "" {
		h.setSecureCookie(c, "access", loginResponse.Access, 8*60*60) // 8 hours
	}

	if loginResponse.Refresh != "" {
		h.setSecureCookie(c, "refresh", loginResponse.Refresh, 7*24*60*60) // 7 days
	}

	// Marshal loginResponse to JSON string for logging
	responseBodyStr := ""
	if loginResponse != nil {
		if b, err := json.Marshal(loginResponse); err == nil {
			responseBodyStr = string(b)
		}
	}

	logEntry := utils.CreateSanitizedLogEntryWithCustomBody(c, string(c.Body()), responseBodyStr)
	h.loggerInstance.Log(logEntry)

	logger.Success("User logged in successfully. uuid: " + loginResponse.User.UUID + " at " + currentTime)
	return c.Status(fiber.StatusOK).JSON(loginResponse)
}

func (h *AuthController) LogOut(c *fiber.Ctx) error {
	// Clear the access and refresh cookies
	h.setSecureCookie(c, "access", "", -1)  // Expire immediately
	h.setSecureCookie(c, "refresh", "", -1) // Expire immediately

	response := types.ApiResponse{
		Message: "Logout successful",
		Status:  fiber.StatusOK,
		Data:    nil,
	}
	logger.Success("Logout successful")
	return c.Status(fiber.StatusOK).JSON(response)
}
