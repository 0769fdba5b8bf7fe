package routes

import (
	"os"
	"repair-booking/constants"
	appointmentController "repair-booking/controllers/appointment"
	"repair-booking/controllers/auth"
	technicianController "repair-booking/controllers/technician"
	"repair-booking/controllers/user"
	httpServices "repair-booking/httpServices/sso"
	"repair-booking/logger"
	"repair-booking/middleware"
	appointmentService "repair-booking/services/appointment"
	"repair-booking/services/assignment"
	"repair-booking/services/cancellation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	ssoClient := httpServices.NewClient(os.Getenv("SSO_BASE_URL"))
	asyncLogger := logger.NewAsyncLogger(db)
	authController := auth.NewAuthController(ssoClient, db, asyncLogger)

	workflow := appointmentService.NewService(
		appointmentService.NewGormStore(db),
		assignment.NewGormResolver(db),
		cancellation.NewTaxonomyFromEnv(),
	)
	appointments := appointmentController.NewAppointmentController(db, workflow, asyncLogger)
	technicians := technicianController.NewTechnicianController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"title": "Home",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/auth/login", authController.Login)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	auth := api.Group("/auth").Use(middleware.RequireAuthentication())
	auth.Get("/profile", user.GetUserInfo)
	auth.Post("/logout", authController.LogOut)

	/*=============================================================================
	| Appointment Routes
	===============================================================================*/
	appointmentGroup := api.Group("/appointments")

	// Recycle bin routes are registered before the :id routes so the
	// literal path wins.
	appointmentGroup.Get("/recycle-bin", middleware.RequireRoles(
		constants.StaffRoles...,
	), appointments.RecycleBin)

	appointmentGroup.Post("/intake/suggest", middleware.RequireRoles(
		constants.RoleCustomer,
	), appointments.SuggestService)

	appointmentGroup.Post("/", middleware.RequireRoles(
		constants.RoleCustomer,
	), appointments.Store)

	appointmentGroup.Get("/", middleware.RequireAuthentication(), appointments.Index)
	appointmentGroup.Get("/:id", middleware.RequireAuthentication(), appointments.Show)

	// Any authenticated role may call the transition endpoint; the rule
	// table decides whether the role can take the requested edge.
	appointmentGroup.Put("/:id/status", middleware.RequireAuthentication(), appointments.UpdateStatus)

	appointmentGroup.Put("/:id/details", middleware.RequireRoles(
		constants.StaffRoles...,
	), appointments.UpdateDetails)

	appointmentGroup.Post("/:id/feedback", middleware.RequireRoles(
		constants.RoleCustomer,
	), appointments.StoreFeedback)

	appointmentGroup.Delete("/:id", middleware.RequireRoles(
		constants.StaffRoles...,
	), appointments.Destroy)

	appointmentGroup.Post("/:id/restore", middleware.RequireRoles(
		constants.StaffRoles...,
	), appointments.Restore)

	appointmentGroup.Delete("/:id/purge", middleware.RequireRoles(
		constants.RoleAdmin,
	), appointments.Purge)

	/*=============================================================================
	| Technician Routes
	===============================================================================*/
	api.Get("/technicians", middleware.RequireRoles(
		constants.StaffRoles...,
	), technicians.Index)
}
