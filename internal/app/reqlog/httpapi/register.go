package httpapi

import (
	"reqlog.local/gee"
	"reqlog.local/internal/app/reqlog"
	"reqlog.local/internal/platform/auth"
	"reqlog.local/internal/platform/httpmiddleware"
)

// RegisterAdminRoutes mounts the format API under /admin. Every route
// requires an operator token.
func RegisterAdminRoutes(r *gee.Engine, store *reqlog.Store, ts auth.TokenService) {
	h := &formatHandler{store: store}

	admin := r.Group("/admin", httpmiddleware.AuthRequired(ts), httpmiddleware.RequireRole(auth.RoleOperator))
	admin.GET("/fields", h.fields)
	admin.GET("/format", h.get)
	admin.PUT("/format", h.put)
	admin.DELETE("/format", h.reset)
	admin.POST("/format/preview", h.preview)
}
