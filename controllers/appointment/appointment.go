package appointment

import (
	"errors"
	"fmt"
	"repair-booking/logger"
	"repair-booking/middleware"
	appointmentModel "repair-booking/models/appointment"
	serviceModel "repair-booking/models/service"
	appointmentService "repair-booking/services/appointment"
	"repair-booking/services/assignment"
	"repair-booking/services/cancellation"
	"repair-booking/services/feedback"
	"repair-booking/services/projection"
	"repair-booking/services/transition"
	"repair-booking/types"
	appointmentTypes "repair-booking/types/appointment"
	"repair-booking/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AppointmentController handles the appointment lifecycle HTTP requests
type AppointmentController struct {
	DB     *gorm.DB
	Svc    *appointmentService.Service
	Logger *logger.AsyncLogger
}

// NewAppointmentController creates a new appointment controller
func NewAppointmentController(db *gorm.DB, svc *appointmentService.Service, asyncLogger *logger.AsyncLogger) *AppointmentController {
	return &AppointmentController{
		DB:     db,
		Svc:    svc,
		Logger: asyncLogger,
	}
}

// Store books a new appointment for the authenticated customer
func (ac *AppointmentController) Store(c *fiber.Ctx) error {
	var req appointmentTypes.AppointmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		logger.Error("Invalid booking payload", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	customerID := middleware.ActorFromContext(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "User UUID not found in token",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}

	var svc serviceModel.Service
	if err := ac.DB.Where("id = ? AND is_active = ?", req.ServiceID, true).First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Unknown service",
				Data:    nil,
			})
		}
		logger.Error("Database error while loading service", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)

	created, err := ac.Svc.Book(c.Context(), appointmentService.BookCommand{
		CustomerID:   customerID,
		CustomerName: middleware.NameFromContext(c),
		ServiceID:    svc.ID,
		ServiceName:  svc.Name,
		CategoryName: svc.CategoryName,
		ScheduledAt:  scheduledAt,
		Notes:        req.Notes,
	})
	if err != nil {
		logger.Error("Failed to create appointment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save appointment",
			Data:    nil,
		})
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	logger.Success(fmt.Sprintf("Appointment created successfully with ID: %s", created.ID))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Appointment created successfully",
		Data:    created,
	})
}

// Index lists live appointments through the projector, with per-status
// counts for the dashboard badges
func (ac *AppointmentController) Index(c *fiber.Ctx) error {
	var q appointmentTypes.ListQuery
	if err := c.QueryParser(&q); err != nil {
		logger.Error("Failed to parse query string", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid query string",
			Data:    nil,
		})
	}

	scope, err := viewerScope(middleware.RoleFromContext(c), middleware.ActorFromContext(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Unknown actor role",
			Data:    nil,
		})
	}

	items, counts, err := ac.Svc.List(c.Context(), projection.Query{
		Status:    q.Status,
		Category:  q.Category,
		Search:    q.Search,
		Date:      q.Date,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}, scope)
	if err != nil {
		return ac.fail(c, err, "Failed to list appointments")
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointments fetched successfully",
		Data: map[string]interface{}{
			"appointments": items,
			"counts":       counts,
			"total":        len(items),
		},
	})
}

// Show fetches a single appointment
func (ac *AppointmentController) Show(c *fiber.Ctx) error {
	scope, err := viewerScope(middleware.RoleFromContext(c), middleware.ActorFromContext(c))
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Unknown actor role",
			Data:    nil,
		})
	}

	a, err := ac.Svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return ac.fail(c, err, "Failed to fetch appointment")
	}
	if scope != "" && a.CustomerID != scope {
		return ac.fail(c, transition.ErrForbidden, "Failed to fetch appointment")
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment fetched successfully",
		Data:    a,
	})
}

// UpdateStatus runs one lifecycle transition. The engine decides whether
// the caller's role may take this edge and what payload it must carry.
func (ac *AppointmentController) UpdateStatus(c *fiber.Ctx) error {
	var req appointmentTypes.StatusUpdateRequest
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

	target, err := appointmentModel.ParseStatus(req.Status)
	if err != nil {
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

	updated, err := ac.Svc.Transition(c.Context(), appointmentService.TransitionCommand{
		AppointmentID: c.Params("id"),
		Role:          role,
		ActorID:       middleware.ActorFromContext(c),
		Target:        target,
		TechnicianID:  req.TechnicianID,
		Category:      req.Category,
		Reason:        req.Reason,
		Rating:        req.Rating,
		Feedback:      req.Feedback,
	})
	if err != nil {
		return ac.fail(c, err, "Failed to update appointment status")
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	logger.Success(fmt.Sprintf("Appointment %s moved to %s", updated.ID, updated.Status))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment status updated successfully",
		Data:    updated,
	})
}

// UpdateDetails reschedules a pending or confirmed appointment
func (ac *AppointmentController) UpdateDetails(c *fiber.Ctx) error {
	var req appointmentTypes.DetailsUpdateRequest
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

	cmd := appointmentService.RescheduleCommand{
		AppointmentID: c.Params("id"),
		Role:          role,
		ActorID:       middleware.ActorFromContext(c),
		TechnicianID:  req.TechnicianID,
	}
	if req.ScheduledAt != "" {
		t, _ := time.Parse(time.RFC3339, req.ScheduledAt)
		cmd.ScheduledAt = &t
	}

	updated, err := ac.Svc.Reschedule(c.Context(), cmd)
	if err != nil {
		return ac.fail(c, err, "Failed to update appointment details")
	}

	logger.Success(fmt.Sprintf("Appointment %s rescheduled", updated.ID))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment details updated successfully",
		Data:    updated,
	})
}

// viewerScope maps the caller's role claim onto a read scope: customers
// are pinned to their own appointments, staff and technicians browse the
// shared pool. A claim outside the known role set is rejected rather than
// falling back to the widest view; the SSO is shared across services and
// a validly-signed token can carry a foreign role string.
func viewerScope(roleClaim, actorID string) (string, error) {
	role, err := transition.ParseRole(roleClaim)
	if err != nil {
		return "", err
	}
	if role == transition.RoleCustomer {
		return actorID, nil
	}
	return "", nil
}

// fail maps workflow errors onto HTTP statuses. Validation problems come
// back 400, role denials 403, unknown ids 404, lost write races and
// repeated feedback 409, impossible edges 422, everything else 500.
func (ac *AppointmentController) fail(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	message := fallback

	var invalid *transition.InvalidTransitionError
	switch {
	case errors.Is(err, appointmentService.ErrNotFound):
		status = fiber.StatusNotFound
		message = "Appointment not found"
	case errors.Is(err, transition.ErrForbidden):
		status = fiber.StatusForbidden
		message = "Role is not allowed to perform this action"
	case errors.As(err, &invalid):
		status = fiber.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, appointmentService.ErrConflict):
		status = fiber.StatusConflict
		message = "Appointment was modified concurrently, refetch and retry"
	case errors.Is(err, feedback.ErrFeedbackNotAllowed):
		status = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, appointmentService.ErrNotReschedulable):
		status = fiber.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, transition.ErrMissingAssignment),
		errors.Is(err, transition.ErrIncompleteCancellation),
		errors.Is(err, cancellation.ErrInvalidCategory),
		errors.Is(err, cancellation.ErrMissingReason),
		errors.Is(err, feedback.ErrInvalidRating),
		errors.Is(err, assignment.ErrUnknownTechnician):
		status = fiber.StatusBadRequest
		message = err.Error()
	default:
		logger.Error(fallback, err)
	}

	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    nil,
	})
}
