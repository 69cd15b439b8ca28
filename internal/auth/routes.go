// Route registration for auth endpoints

package auth

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers auth routes on the router
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *Middleware) {
	public := router.PathPrefix("/api/v1/auth").Subrouter()
	public.HandleFunc("/register", handler.Register).Methods("POST")
	public.HandleFunc("/login", handler.Login).Methods("POST")
	public.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	protected := router.PathPrefix("/api/v1/auth").Subrouter()
	protected.Use(middleware.Authenticate)
	protected.HandleFunc("/me", handler.Me).Methods("GET")
}
