package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clocko-app/clocko/app/controllers"
	"github.com/clocko-app/clocko/app/repository"
	"github.com/clocko-app/clocko/internal/pkg/billing"
	"github.com/clocko-app/clocko/internal/pkg/database"
	"github.com/clocko-app/clocko/internal/pkg/middleware"
	"github.com/clocko-app/clocko/internal/pkg/session"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Build the process-wide collaborators once and hand them to the handler
	// package; nothing below constructs its own clients.
	repos := repository.NewFactory(database.GetDB()).GetRepositories()
	billingSvc := billing.NewServiceFromDB(database.GetDB(), billing.NewStripeGateway())
	controllers.InitializeControllers(repos, billingSvc)

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerProtectedRoutes(app, repos)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleHome)
	app.Get("/login", controllers.HandleAuthLogin)
	app.Post("/login", controllers.HandleAuthLogin)
	app.Get("/register", controllers.HandleAuthRegister)
	app.Post("/register", controllers.HandleAuthRegister)
	app.Get("/logout", controllers.HandleAuthLogout)

	// Stripe calls this; authentication is the payload signature.
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}

func (h HttpRouter) registerProtectedRoutes(app *fiber.App, repos *repository.Repositories) {
	authed := app.Group("", middleware.RequireAuth)

	authed.Get("/dashboard", controllers.HandleDashboard)
	authed.Get("/projects", controllers.HandleProjects)
	authed.Get("/reports", controllers.HandleReports)
	authed.Get("/reports/export/csv", controllers.HandleReportExportCSV)
	authed.Get("/reports/export/pdf", controllers.HandleReportExportPDF)
	authed.Get("/billing", controllers.HandleBillingPage)
	authed.Post("/billing/checkout", controllers.HandleCheckout)
	authed.Post("/billing/portal", controllers.HandleBillingPortal)

	// Mutating actions additionally require an active subscription or trial.
	gated := authed.Group("", middleware.RequireActiveSubscription(repos.User))
	gated.Post("/projects", controllers.HandleProjectCreate)
	gated.Post("/projects/:uuid/update", controllers.HandleProjectUpdate)
	gated.Post("/projects/:uuid/delete", controllers.HandleProjectDelete)
	gated.Post("/timer/start", controllers.HandleTimerStart)
	gated.Post("/timer/stop", controllers.HandleTimerStop)
	gated.Post("/entries", controllers.HandleManualEntryCreate)
	gated.Post("/entries/:uuid/delete", controllers.HandleTimeEntryDelete)
}
