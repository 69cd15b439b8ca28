package matching

import (
	"github.com/gorilla/mux"
	"github.com/qiranapp/qiran-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Discovery
	api.HandleFunc("/discover", handler.Discover).Methods("GET")
	api.HandleFunc("/profiles/{id}/like", handler.Like).Methods("POST")
	api.HandleFunc("/profiles/{id}/pass", handler.Pass).Methods("POST")
	api.HandleFunc("/profiles/{id}/favorite", handler.Favorite).Methods("POST")
	api.HandleFunc("/profiles/{id}/compatibility", handler.GetCompatibility).Methods("GET")

	// Matches
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
	api.HandleFunc("/matches/{id}/unmatch", handler.Unmatch).Methods("POST")

	// Realtime match events
	api.HandleFunc("/ws", handler.ServeWS).Methods("GET")
}
