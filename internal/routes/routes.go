package routes

import (
	"devnovate/internal/handlers"
	"devnovate/internal/metrics"
	"devnovate/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	moderationHandler *handlers.ModerationHandler,
	ingestionHandler *handlers.IngestionHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)

	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	// receive-blog сам разбирает метод (GET — документация, прочее — 405).
	api.HandleFunc("/functions/receive-blog", ingestionHandler.Handle)

	// --- Защищённые JWT (только admin) ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.Use(middleware.OnlyRole("admin"))

	protected.HandleFunc("/functions/admin-blogs", moderationHandler.Handle).Methods("POST", "OPTIONS")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/dashboard/blogs", dashboardHandler.ListBlogs).Methods("GET")
	admin.HandleFunc("/dashboard/events", dashboardHandler.Events).Methods("GET")
	admin.HandleFunc("/dashboard/dispatch", dashboardHandler.Dispatch).Methods("POST")
	admin.HandleFunc("/dashboard/blogs/{id}/edit", dashboardHandler.Edit).Methods("POST")
	admin.HandleFunc("/dashboard/blogs/{id}/ticket", dashboardHandler.RaiseTicket).Methods("POST")
}
