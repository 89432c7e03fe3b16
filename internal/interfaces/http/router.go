package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/syncdelta"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Resolver  *auth.Resolver
	Gate      *access.Gate
	Access    *access.Service
	AuthUC    *auth.AuthUseCase
	CompanyUC *usecase.CompanyUseCase
	ProfileUC *usecase.ProfileUseCase

	Categories *usecase.CategoryUseCase
	Units      *usecase.UnitUseCase
	Brands     *usecase.BrandUseCase
	Products   *usecase.ProductUseCase
	Customers  *usecase.CustomerUseCase
	Suppliers  *usecase.SupplierUseCase
	Employees  *usecase.EmployeeUseCase
	Invoices   *usecase.InvoiceUseCase
	InvoicePDF *billing.PDFUseCase

	Sync *syncdelta.Engine
	Log  *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	need := func(p rbac.Permission) fiber.Handler { return RequirePermission(deps.Gate, p, log) }

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: identidad resuelta en cada petición.
	protected := api.Group("/", AuthMiddleware(deps.Resolver, log))
	protected.Get("/auth/me", authHandler.Me)

	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", need(rbac.ManageCompany), companyHandler.Update)

	profileHandler := NewProfileHandler(deps.ProfileUC, log)
	protected.Get("/profile", profileHandler.Get)
	protected.Put("/profile", profileHandler.Update)

	roleHandler := NewRoleHandler(deps.Access, log)
	protected.Get("/roles/definitions", roleHandler.Definitions)
	protected.Get("/roles", need(rbac.ViewEmployees), roleHandler.List)
	protected.Get("/roles/:role/permissions", need(rbac.ViewEmployees), roleHandler.Permissions)
	protected.Put("/roles/:role/permissions", need(rbac.ManageSettings), roleHandler.Replace)
	protected.Post("/roles/:role/permissions", need(rbac.ManageSettings), roleHandler.Replace)
	protected.Delete("/roles/:role/permissions", need(rbac.ManageSettings), roleHandler.Reset)

	catalogView, catalogManage := need(rbac.ViewProducts), need(rbac.ManageProducts)
	NewResourceHandler[entity.Category, dto.CategoryRequest](deps.Categories, log).
		Mount(protected.Group("/categories"), catalogView, catalogManage)
	NewResourceHandler[entity.Unit, dto.UnitRequest](deps.Units, log).
		Mount(protected.Group("/units"), catalogView, catalogManage)
	NewResourceHandler[entity.Brand, dto.BrandRequest](deps.Brands, log).
		Mount(protected.Group("/brands"), catalogView, catalogManage)
	NewResourceHandler[entity.Product, dto.ProductRequest](deps.Products, log).
		Mount(protected.Group("/products"), catalogView, catalogManage)
	NewResourceHandler[entity.Customer, dto.CustomerRequest](deps.Customers, log).
		Mount(protected.Group("/customers"), need(rbac.ViewCustomers), need(rbac.ManageCustomers))
	NewResourceHandler[entity.Supplier, dto.SupplierRequest](deps.Suppliers, log).
		Mount(protected.Group("/suppliers"), need(rbac.ViewSuppliers), need(rbac.ManageSuppliers))
	NewResourceHandler[entity.Employee, dto.EmployeeRequest](deps.Employees, log).
		Mount(protected.Group("/employees"), need(rbac.ViewEmployees), need(rbac.ManageEmployees))

	// Invoices: el detalle incluye las líneas, por eso GET /:uuid no es el genérico.
	invoices := protected.Group("/invoices")
	viewInvoices := need(rbac.ViewInvoices)
	invoiceCRUD := NewResourceHandler[entity.Invoice, dto.InvoiceRequest](deps.Invoices, log)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.InvoicePDF, log)
	invoices.Get("/", viewInvoices, invoiceCRUD.List)
	invoices.Get("/:uuid", viewInvoices, invoiceHandler.GetByID)
	invoices.Get("/:uuid/items", viewInvoices, invoiceHandler.Items)
	invoices.Get("/:uuid/pdf", viewInvoices, invoiceHandler.DownloadPDF)
	invoiceCRUD.MountWrites(invoices, need(rbac.ManageInvoices))

	syncHandler := NewSyncHandler(deps.Sync, log)
	protected.Post("/sync", syncHandler.Sync)
}
