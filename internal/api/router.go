package api

import (
	"database/sql"
	"net/http"

	"github.com/assetdesk/assetdesk/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	productsHandler := &ProductsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	employeesHandler := &EmployeesHandler{DB: db}
	assignmentsHandler := &AssignmentsHandler{DB: db}
	dashboardHandler := &DashboardHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Products: read (all roles), write (manager+).
	mux.Handle("GET /api/products", authMW(http.HandlerFunc(productsHandler.List)))
	mux.Handle("POST /api/products", authMW(requireManager(http.HandlerFunc(productsHandler.Create))))
	mux.Handle("GET /api/products/low-stock", authMW(http.HandlerFunc(productsHandler.LowStock)))
	mux.Handle("GET /api/products/{id}", authMW(http.HandlerFunc(productsHandler.Get)))
	mux.Handle("PUT /api/products/{id}", authMW(requireManager(http.HandlerFunc(productsHandler.Update))))
	mux.Handle("DELETE /api/products/{id}", authMW(requireManager(http.HandlerFunc(productsHandler.Delete))))
	mux.Handle("GET /api/products/{id}/items", authMW(http.HandlerFunc(productsHandler.GetItems)))
	mux.Handle("PUT /api/products/{id}/image", authMW(requireManager(http.HandlerFunc(productsHandler.UploadImage))))
	mux.Handle("GET /api/products/{id}/image", authMW(http.HandlerFunc(productsHandler.GetImage)))

	// Items: read (all roles), write (manager+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireManager(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("GET /api/items/{id}/history", authMW(http.HandlerFunc(itemsHandler.GetHistory)))

	// Employees: read (all roles), write (manager+).
	mux.Handle("GET /api/employees", authMW(http.HandlerFunc(employeesHandler.List)))
	mux.Handle("POST /api/employees", authMW(requireManager(http.HandlerFunc(employeesHandler.Create))))
	mux.Handle("GET /api/employees/{id}", authMW(http.HandlerFunc(employeesHandler.Get)))
	mux.Handle("PUT /api/employees/{id}", authMW(requireManager(http.HandlerFunc(employeesHandler.Update))))
	mux.Handle("DELETE /api/employees/{id}", authMW(requireManager(http.HandlerFunc(employeesHandler.Delete))))
	mux.Handle("GET /api/employees/{id}/assignments", authMW(http.HandlerFunc(employeesHandler.GetAssignments)))

	// Assignments: create/return (manager+), read (all roles).
	mux.Handle("GET /api/assignments", authMW(http.HandlerFunc(assignmentsHandler.List)))
	mux.Handle("POST /api/assignments", authMW(requireManager(http.HandlerFunc(assignmentsHandler.Create))))
	mux.Handle("GET /api/assignments/{id}", authMW(http.HandlerFunc(assignmentsHandler.Get)))
	mux.Handle("POST /api/assignments/{id}/return", authMW(requireManager(http.HandlerFunc(assignmentsHandler.Return))))

	// Dashboard and reports (all roles).
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(dashboardHandler.Get)))
	mux.Handle("GET /api/reports/assignments.xlsx", authMW(http.HandlerFunc(reportsHandler.Assignments)))
	mux.Handle("GET /api/reports/stock.xlsx", authMW(http.HandlerFunc(reportsHandler.Stock)))

	return mux
}
