// Route registration for notification endpoints

package notification

import (
	"github.com/gorilla/mux"

	"github.com/qiranapp/qiran-backend/internal/auth"
)

// RegisterRoutes registers notification routes on the router
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r := router.PathPrefix("/api/v1/notifications").Subrouter()
	r.Use(authMiddleware.Authenticate)

	r.HandleFunc("", handler.List).Methods("GET")
	r.HandleFunc("/unread-count", handler.UnreadCount).Methods("GET")
	r.HandleFunc("/read-all", handler.MarkAllRead).Methods("POST")
	r.HandleFunc("/{id}/read", handler.MarkRead).Methods("POST")
}
