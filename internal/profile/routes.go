// Route registration for profile endpoints

package profile

import (
	"github.com/gorilla/mux"

	"github.com/qiranapp/qiran-backend/internal/auth"
)

// RegisterRoutes registers profile routes on the router
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r := router.PathPrefix("/api/v1/profiles").Subrouter()
	r.Use(authMiddleware.Authenticate)

	r.HandleFunc("/setup", handler.SetupProfile).Methods("POST")
	r.HandleFunc("/me", handler.GetMyProfile).Methods("GET")
	r.HandleFunc("/me", handler.UpdateProfile).Methods("PATCH")
	r.HandleFunc("/me/completion", handler.GetCompletion).Methods("GET")
	r.HandleFunc("/me/photos", handler.UploadPhoto).Methods("POST")
	r.HandleFunc("/me/photos", handler.DeletePhoto).Methods("DELETE")

	r.HandleFunc("/blocks", handler.BlockUser).Methods("POST")
	r.HandleFunc("/blocks", handler.GetBlockedUsers).Methods("GET")
	r.HandleFunc("/blocks/{id}", handler.UnblockUser).Methods("DELETE")

	r.HandleFunc("/{id}", handler.GetProfile).Methods("GET")
}
