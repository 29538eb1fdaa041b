package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal/auditlog"
	"github.com/frahmantamala/childcare-management/internal/auth"
	"github.com/frahmantamala/childcare-management/internal/category"
	"github.com/frahmantamala/childcare-management/internal/dashboard"
	"github.com/frahmantamala/childcare-management/internal/employee"
	"github.com/frahmantamala/childcare-management/internal/inventory"
	"github.com/frahmantamala/childcare-management/internal/permission"
	"github.com/frahmantamala/childcare-management/internal/resource"
	"github.com/frahmantamala/childcare-management/internal/transport"
	"github.com/frahmantamala/childcare-management/internal/transport/middleware"
	"github.com/frahmantamala/childcare-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the HTTP handlers mounted by RegisterAllRoutes.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Resource   *resource.Handler
	Employee   *employee.Handler
	Inventory  *inventory.Handler
	Permission *permission.Handler
	AuditLog   *auditlog.Handler
	Dashboard  *dashboard.Handler
	Category   *category.Handler
}

type Options struct {
	Checker        middleware.PermissionChecker
	Verifier       middleware.TokenVerifier
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins string
	OpenAPIPath    string
}

// DonationsResource is served through fixed routes instead of /{resource}.
const DonationsResource = "donations"

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options, logger *slog.Logger) {
	requireTable := func(table string) func(http.Handler) http.Handler {
		return middleware.RequireTable(opts.Checker, logger, table)
	}

	// Set before any Route call so that every sub-router inherits them.
	base := transport.NewBaseHandler(logger)
	router.NotFound(base.NotFound)
	router.MethodNotAllowed(base.MethodNotAllowed)

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Metrics)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Actor)
	router.Use(middleware.OptionalBearer(opts.Verifier, logger))
	router.Use(middleware.RequestLogging)

	router.Get(swagger.SpecRoute, swagger.SpecHandler(opts.OpenAPIPath))
	router.Handle("/swagger/*", swagger.Handler())
	router.Handle("/metrics", promhttp.Handler())

	router.Get("/health", h.Health.Health)
	router.Get("/ping", h.Health.Ping)

	router.Group(func(r chi.Router) {
		if opts.LoginLimiter != nil {
			r.Use(opts.LoginLimiter.Middleware(logger))
		}
		r.Post("/login", h.Auth.Login)
	})

	router.Route("/employees", func(r chi.Router) {
		r.Use(requireTable("staffs"))
		r.Get("/", h.Employee.GetEmployees)
		r.Post("/", h.Employee.CreateEmployee)
		r.Get("/{id}", h.Employee.GetEmployee)
		r.Put("/{id}", h.Employee.UpdateEmployee)
		r.Delete("/{id}", h.Employee.DeleteEmployee)
		r.Get("/{id}/permissions", h.Permission.GetPermissions)
		r.Put("/{id}/permissions", h.Permission.ReplacePermissions)
	})

	router.Put("/profile/{id}", h.Employee.UpdateProfile)

	router.Route("/inventory", func(r chi.Router) {
		r.Use(requireTable(inventory.AuditTable))
		r.Get("/", h.Inventory.GetItems)
		r.Get("/categories", h.Inventory.GetCategories)
		r.Post("/", h.Inventory.CreateItem)
		r.Put("/{id}", h.Inventory.UpdateItem)
		r.Delete("/{id}", h.Inventory.DeleteItem)
	})

	router.Route("/tables", func(r chi.Router) {
		r.Get("/", h.Permission.GetTables)
	})

	router.Route("/catalog", func(r chi.Router) {
		r.Get("/case-categories", h.Category.GetCaseCategories)
		r.Get("/education-levels", h.Category.GetEducationLevels)
	})

	router.Route("/logs", func(r chi.Router) {
		r.Get("/", h.AuditLog.GetLogs)
		r.Get("/export", h.AuditLog.ExportLogs)
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.Dashboard.GetStats)
		r.Get("/chart-data", h.Dashboard.GetChartData)
		r.Get("/upcoming-birthdays", h.Dashboard.GetUpcomingBirthdays)
		r.Get("/upcoming-events", h.Dashboard.GetUpcomingEvents)
		r.Get("/children-distribution", h.Dashboard.GetChildrenDistribution)
	})

	router.Route("/"+DonationsResource, func(r chi.Router) {
		r.Use(h.Resource.Fixed(DonationsResource))
		r.Use(middleware.RequirePermission(opts.Checker, logger, resource.TableName))
		mountResource(r, h.Resource)
	})

	router.Route("/{"+resource.URLParam+"}", func(r chi.Router) {
		r.Use(h.Resource.Resolve)
		r.Use(middleware.RequirePermission(opts.Checker, logger, resource.TableName))
		mountResource(r, h.Resource)
	})
}

func mountResource(r chi.Router, h *resource.Handler) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
