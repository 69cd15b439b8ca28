// Route registration for admin and reporting endpoints

package admin

import (
	"github.com/gorilla/mux"

	"github.com/qiranapp/qiran-backend/internal/auth"
)

// RegisterRoutes registers admin routes on the router. Config updates
// require super-admin; everything else under /admin requires admin.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Members can file reports
	member := router.PathPrefix("/api/v1/reports").Subrouter()
	member.Use(authMiddleware.Authenticate)
	member.HandleFunc("", handler.CreateReport).Methods("POST")

	adminRouter := router.PathPrefix("/api/v1/admin").Subrouter()
	adminRouter.Use(authMiddleware.Authenticate, authMiddleware.RequireAdmin)
	adminRouter.HandleFunc("/matching-config", handler.GetConfig).Methods("GET")
	adminRouter.HandleFunc("/moderation-queue", handler.ListQueue).Methods("GET")
	adminRouter.HandleFunc("/profiles/{id}/moderate", handler.ModerateProfile).Methods("POST")
	adminRouter.HandleFunc("/profiles/{id}/verification", handler.SetVerification).Methods("POST")
	adminRouter.HandleFunc("/reports", handler.ListReports).Methods("GET")
	adminRouter.HandleFunc("/reports/{id}/resolve", handler.ResolveReport).Methods("POST")
	adminRouter.HandleFunc("/stats", handler.GetStats).Methods("GET")

	superAdmin := router.PathPrefix("/api/v1/admin").Subrouter()
	superAdmin.Use(authMiddleware.Authenticate, authMiddleware.RequireSuperAdmin)
	superAdmin.HandleFunc("/matching-config", handler.UpdateConfig).Methods("PUT")
}
