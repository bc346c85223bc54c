package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/katalog/internal/auth"
	"github.com/erazemk/katalog/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, tokenCfg auth.TokenConfig) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, TokenCfg: tokenCfg}
	usersHandler := &UsersHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	adminRequestsHandler := &AdminRequestsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	auditHandler := &AuditHandler{DB: db}

	authMW := AuthMiddleware(tokenCfg)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireUser := RequireRole(model.RoleUser)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))

	// Item requests (user role).
	mux.Handle("POST /api/requests", authMW(requireUser(http.HandlerFunc(requestsHandler.Create))))
	mux.Handle("GET /api/requests/mine", authMW(requireUser(http.HandlerFunc(requestsHandler.Mine))))
	mux.Handle("POST /api/requests/{id}/appeal", authMW(requireUser(http.HandlerFunc(requestsHandler.Appeal))))

	// Request adjudication (admin only).
	mux.Handle("GET /api/admin/requests", authMW(requireAdmin(http.HandlerFunc(adminRequestsHandler.List))))
	mux.Handle("POST /api/admin/requests/{id}/approve", authMW(requireAdmin(http.HandlerFunc(adminRequestsHandler.Approve))))
	mux.Handle("POST /api/admin/requests/{id}/deny", authMW(requireAdmin(http.HandlerFunc(adminRequestsHandler.Deny))))

	// Item management (admin only).
	mux.Handle("GET /api/admin/items", authMW(requireAdmin(http.HandlerFunc(itemsHandler.List))))
	mux.Handle("POST /api/admin/items", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("PUT /api/admin/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/admin/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Delete))))

	// User management (admin only).
	mux.Handle("GET /api/admin/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/admin/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("PUT /api/admin/users/{id}/role", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpdateRole))))
	mux.Handle("POST /api/admin/users/{id}/reset-password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/admin/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))
	mux.Handle("POST /api/admin/users/upgrade-legacy-passwords", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpgradeLegacyPasswords))))

	// Audit ledger (admin only).
	mux.Handle("GET /api/admin/audit", authMW(requireAdmin(http.HandlerFunc(auditHandler.List))))

	return mux
}
