// routes/routes.go
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/aquagate/handlers"
	"p9e.in/aquagate/middleware"
	"p9e.in/aquagate/models"
)

// SetupRoutes wires the full HTTP surface. Everything under /api/v1 needs a
// valid token; /api/v1/admin additionally needs the admin role.
func SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", home).Methods("GET")
	r.HandleFunc("/health", health).Methods("GET")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	// Gate workflow
	api.HandleFunc("/gate/entries", handlers.CreateGateEntry).Methods("POST")
	api.HandleFunc("/gate/vehicles/{vehicleNo}/status", handlers.VehicleStatus).Methods("GET")
	api.HandleFunc("/gate/vehicles/{vehicleNo}/history", handlers.VehicleHistory).Methods("GET")
	api.HandleFunc("/gate/vehicles/{vehicleNo}/recent-documents", handlers.RecentDocumentsForVehicle).Methods("GET")
	api.HandleFunc("/gate/documents/recent", handlers.SearchRecentDocuments).Methods("GET")
	api.HandleFunc("/gate/documents/by-vehicle/{vehicleNo}", handlers.DocumentsByVehicle).Methods("GET")

	// Insights and operational data
	api.HandleFunc("/insights/operational-data", handlers.UpdateOperationalData).Methods("PUT")
	api.HandleFunc("/insights/movements/filter", handlers.FilteredMovements).Methods("POST")
	api.HandleFunc("/insights/movements/pending", handlers.RecordsNeedingCompletion).Methods("GET")
	api.HandleFunc("/insights/statistics/edits", handlers.EditStatistics).Methods("GET")
	api.HandleFunc("/insights/summary", handlers.OperationalSummary).Methods("GET")
	api.HandleFunc("/insights/vehicles/{vehicleNo}/km-context", handlers.KMReadingContext).Methods("GET")
	api.HandleFunc("/insights/export", handlers.ExportMovements).Methods("GET")

	// Document reconciliation
	api.HandleFunc("/sync/manual", handlers.TriggerManualSync).Methods("POST")
	api.HandleFunc("/sync/status", handlers.GetSyncStatus).Methods("GET")
	api.HandleFunc("/sync/logs", handlers.GetSyncLogs).Methods("GET")
	api.HandleFunc("/sync/runs", handlers.ListSyncRuns).Methods("GET")

	// Admin-only management
	admin := api.PathPrefix("/admin").Subrouter()
	adminOnly := []string{models.RoleAdmin}
	admin.Handle("/users", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.Register))).Methods("POST")
	admin.Handle("/users", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.ListUsers))).Methods("GET")
	admin.Handle("/reset-password", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.ResetPassword))).Methods("POST")
	admin.Handle("/warehouses", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.ListWarehouses))).Methods("GET")
	admin.Handle("/staging/{source}", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.IngestStagingRows))).Methods("POST")

	return r
}

func home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "aquagate",
		"message": "warehouse gate entry and document reconciliation API",
	})
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
