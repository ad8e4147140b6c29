package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/docuflow-api/internal/application/auth"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/observability/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	DocumentUC *usecase.DocumentUseCase
	WorkflowUC *usecase.WorkflowUseCase
	UserUC     *usecase.UserUseCase
	JWTSecret  string

	// Adapters net/http montados por el router (nil = no se montan).
	GraphQLHandler nethttp.Handler
	SOAPHandler    nethttp.Handler

	Metrics *metrics.Registry
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Documents (protegido; el control fino de roles vive en los usecases)
	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents.Post("/", documentHandler.Upload)
	documents.Get("/", documentHandler.List)
	documents.Get("/mine", documentHandler.ListOwn)
	documents.Get("/pending", documentHandler.ListPending)
	documents.Get("/metrics", documentHandler.Metrics)
	documents.Post("/classify", documentHandler.Classify)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Post("/:id/review", documentHandler.Review)
	documents.Get("/:id/summary.pdf", documentHandler.SummaryPDF)
	documents.Delete("/:id", documentHandler.Delete)

	// Workflows (protegido)
	workflows := protected.Group("/workflows")
	workflowHandler := NewWorkflowHandler(deps.WorkflowUC)
	workflows.Post("/", workflowHandler.Create)
	workflows.Get("/", workflowHandler.List)
	workflows.Get("/mine", workflowHandler.ListMine)
	workflows.Put("/:id/status", workflowHandler.UpdateStatus)
	workflows.Delete("/:id", workflowHandler.Delete)

	// Users (protegido; GetByID permite al propio usuario, el resto es solo admin)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	adminOnly := RequireRole(entity.RoleAdministrator)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", adminOnly, userHandler.UpdateRole)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Adapters alternativos sobre las mismas operaciones de dominio
	if deps.GraphQLHandler != nil {
		app.All("/graphql", adaptor.HTTPHandler(deps.GraphQLHandler))
	}
	if deps.SOAPHandler != nil {
		app.All("/soap", adaptor.HTTPHandler(deps.SOAPHandler))
	}
}
