package server

import (
	"kiosko-backend/internal/admin"
	"kiosko-backend/internal/auth"
	"kiosko-backend/internal/catalog"
	"kiosko-backend/internal/config"
	"kiosko-backend/internal/models"
	"kiosko-backend/internal/rental"
	"kiosko-backend/internal/report"
	"kiosko-backend/internal/vendor"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes arma la tabla de rutas completa. Los tests montan la misma API
// sobre su propia app.
func RegisterRoutes(app *fiber.App, cfg *config.Config) {
	api := app.Group("/api")

	// Público
	api.Post("/auth/register-company", auth.RegisterCompanyHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Todo lo demás requiere token
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Catálogo de productos
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Post("/products", adminOnly, catalog.CreateProductHandler())
	protected.Put("/products/:id", adminOnly, catalog.UpdateProductHandler())
	protected.Delete("/products/:id", adminOnly, catalog.DeleteProductHandler())

	// Arriendos
	protected.Get("/rentals/stats", rental.StatsHandler())
	protected.Get("/rentals", rental.ListRentalsHandler())
	protected.Get("/rentals/:id", rental.GetRentalHandler())
	protected.Post("/rentals", rental.CreateRentalHandler())
	protected.Put("/rentals/:id", rental.UpdateRentalHandler())
	protected.Put("/rentals/:id/add-items", rental.AddItemsHandler())
	protected.Put("/rentals/:id/modify", rental.ModifyRentalHandler())
	protected.Get("/rentals/:id/modifications", rental.ListModificationsHandler())
	protected.Post("/rentals/:id/close", rental.CloseRentalHandler())
	protected.Delete("/rentals/:id", rental.VoidRentalHandler())

	// Vendedores ambulantes
	protected.Get("/vendors/stats", vendor.StatsHandler())
	protected.Get("/vendors", vendor.ListVendorsHandler())
	protected.Get("/vendors/:id", vendor.GetVendorHandler())
	protected.Post("/vendors", vendor.CreateVendorHandler())
	protected.Put("/vendors/:id", vendor.UpdateVendorHandler())
	protected.Delete("/vendors/:id", adminOnly, vendor.DeleteVendorHandler())
	protected.Post("/vendors/:id/assign-inventory", vendor.AssignInventoryHandler())
	protected.Post("/vendors/:id/register-sale", vendor.RegisterSaleHandler())
	protected.Post("/vendors/:id/close-shift", vendor.CloseShiftHandler())

	// Usuarios (solo admin)
	protected.Get("/users", adminOnly, admin.ListUsersHandler())
	protected.Post("/users", adminOnly, admin.CreateUserHandler())
	protected.Put("/users/:id", adminOnly, admin.UpdateUserHandler())

	// Reportes
	protected.Get("/reports/sales/export", report.ExportSalesHandler())
}
