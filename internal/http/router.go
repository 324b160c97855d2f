package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"farm-backend/internal/events"
	"farm-backend/internal/handlers"
	"farm-backend/internal/middleware"
	"farm-backend/internal/models"
)

func NewRouter(
	purchaseHandler *handlers.TradeHandler,
	saleHandler *handlers.TradeHandler,
	godownSaleHandler *handlers.TradeHandler,
	farmerHandler *handlers.FarmerHandler,
	retailerHandler *handlers.RetailerHandler,
	vehicleHandler *handlers.VehicleHandler,
	expenseHandler *handlers.ExpenseHandler,
	mortalityHandler *handlers.MortalityHandler,
	systemSettingHandler *handlers.SystemSettingHandler,
	reportHandler *handlers.ReportHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
	logger *zap.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	// Change feed; browsers cannot set headers on a websocket upgrade, so the
	// token travels as ?token= and is checked by the same middleware.
	r.Handle("/ws/events", authMiddleware.Authenticate(http.HandlerFunc(hub.ServeWS)))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	trades := []struct {
		path    string
		handler *handlers.TradeHandler
	}{
		{"/purchases", purchaseHandler},
		{"/sales", saleHandler},
		{"/godown-sales", godownSaleHandler},
	}
	for _, t := range trades {
		tradeAPI := api.PathPrefix(t.path).Subrouter()
		tradeAPI.HandleFunc("", t.handler.List).Methods("GET")
		tradeAPI.HandleFunc("", t.handler.Create).Methods("POST")
		tradeAPI.HandleFunc("/preview", t.handler.Preview).Methods("POST")
		tradeAPI.HandleFunc("/{id}", t.handler.Get).Methods("GET")
		tradeAPI.HandleFunc("/{id}", t.handler.Update).Methods("PUT")
		tradeAPI.HandleFunc("/{id}", t.handler.Delete).Methods("DELETE")

		// Unprefixed routes kept for older clients: id travels in the query
		// string for DELETE and in the body for POST.
		r.Handle(t.path, authMiddleware.Authenticate(http.HandlerFunc(t.handler.List))).Methods("GET")
		r.Handle(t.path, authMiddleware.Authenticate(http.HandlerFunc(t.handler.LegacySave))).Methods("POST")
		r.Handle(t.path, authMiddleware.Authenticate(http.HandlerFunc(t.handler.LegacyDelete))).Methods("DELETE")
	}

	farmersAPI := api.PathPrefix("/farmers").Subrouter()
	farmersAPI.HandleFunc("", farmerHandler.ListFarmers).Methods("GET")
	farmersAPI.HandleFunc("", farmerHandler.CreateFarmer).Methods("POST")
	farmersAPI.HandleFunc("/{id}", farmerHandler.GetFarmer).Methods("GET")
	farmersAPI.HandleFunc("/{id}", farmerHandler.UpdateFarmer).Methods("PUT")
	farmersAPI.HandleFunc("/{id}", farmerHandler.DeleteFarmer).Methods("DELETE")

	retailersAPI := api.PathPrefix("/retailers").Subrouter()
	retailersAPI.HandleFunc("", retailerHandler.ListRetailers).Methods("GET")
	retailersAPI.HandleFunc("", retailerHandler.CreateRetailer).Methods("POST")
	retailersAPI.HandleFunc("/{id}", retailerHandler.GetRetailer).Methods("GET")
	retailersAPI.HandleFunc("/{id}", retailerHandler.UpdateRetailer).Methods("PUT")
	retailersAPI.HandleFunc("/{id}", retailerHandler.DeleteRetailer).Methods("DELETE")

	vehiclesAPI := api.PathPrefix("/vehicles").Subrouter()
	vehiclesAPI.HandleFunc("", vehicleHandler.ListVehicles).Methods("GET")
	vehiclesAPI.HandleFunc("", vehicleHandler.CreateVehicle).Methods("POST")
	vehiclesAPI.HandleFunc("/{id}", vehicleHandler.GetVehicle).Methods("GET")
	vehiclesAPI.HandleFunc("/{id}", vehicleHandler.UpdateVehicle).Methods("PUT")
	vehiclesAPI.HandleFunc("/{id}", vehicleHandler.DeleteVehicle).Methods("DELETE")

	expensesAPI := api.PathPrefix("/expenses").Subrouter()
	expensesAPI.HandleFunc("", expenseHandler.ListExpenses).Methods("GET")
	expensesAPI.HandleFunc("", expenseHandler.CreateExpense).Methods("POST")
	expensesAPI.HandleFunc("/summary", expenseHandler.MonthlySummary).Methods("GET")
	expensesAPI.HandleFunc("/{id}", expenseHandler.GetExpense).Methods("GET")
	expensesAPI.HandleFunc("/{id}", expenseHandler.UpdateExpense).Methods("PUT")
	expensesAPI.HandleFunc("/{id}", expenseHandler.DeleteExpense).Methods("DELETE")

	mortalityAPI := api.PathPrefix("/mortality").Subrouter()
	mortalityAPI.HandleFunc("", mortalityHandler.ListRecords).Methods("GET")
	mortalityAPI.HandleFunc("", mortalityHandler.CreateRecord).Methods("POST")
	mortalityAPI.HandleFunc("/{id}", mortalityHandler.GetRecord).Methods("GET")
	mortalityAPI.HandleFunc("/{id}", mortalityHandler.UpdateRecord).Methods("PUT")
	mortalityAPI.HandleFunc("/{id}", mortalityHandler.DeleteRecord).Methods("DELETE")

	settingsAPI := api.PathPrefix("/settings").Subrouter()
	settingsAPI.HandleFunc("", systemSettingHandler.ListSettings).Methods("GET")
	settingsAPI.HandleFunc("/{key}", systemSettingHandler.GetSetting).Methods("GET")
	settingsAPI.Handle("/{key}", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(systemSettingHandler.UpdateSetting))).Methods("PUT")

	usersAPI := api.PathPrefix("/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	usersAPI.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")

	reportsAPI := api.PathPrefix("/reports").Subrouter()
	reportsAPI.HandleFunc("/summary", reportHandler.GetSummary).Methods("GET")
	reportsAPI.HandleFunc("/summary/csv", reportHandler.GetSummaryCSV).Methods("GET")
	reportsAPI.HandleFunc("/summary/pdf", reportHandler.GetSummaryPDF).Methods("GET")
	reportsAPI.HandleFunc("/farmers/outstanding", reportHandler.GetFarmerOutstanding).Methods("GET")
	reportsAPI.HandleFunc("/mortality", reportHandler.GetMortalityRate).Methods("GET")
	reportsAPI.Handle("/archive", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(reportHandler.ArchiveSummary))).Methods("POST")

	return r
}
