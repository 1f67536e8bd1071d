package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/dkempf/fintrack/internal/config"
	"github.com/dkempf/fintrack/internal/handler"
	"github.com/dkempf/fintrack/internal/integrations/rates"
	"github.com/dkempf/fintrack/internal/jobs"
	"github.com/dkempf/fintrack/internal/middleware"
	"github.com/dkempf/fintrack/internal/repository"
	"github.com/dkempf/fintrack/internal/service"
	"github.com/dkempf/fintrack/internal/token"
	"github.com/dkempf/fintrack/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, tokens, mailer, logger)
	h := handler.NewHandler(svc, logger)
	ratesClient := rates.NewClient(cfg, logger)

	// Start background jobs
	scheduler := jobs.NewScheduler(repo, mailer, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/payment-methods", h.ListPaymentMethods).Methods("GET")
	// Reference rates endpoint
	r.HandleFunc("/rates", func(w http.ResponseWriter, r *http.Request) {
		result, err := ratesClient.GetRates()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get rates: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(result)
	}).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.Authenticate(tokens))
	authRouter.HandleFunc("/auth/me", h.Me).Methods("GET")
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/{username}", h.ListTransactions).Methods("GET")
	// Admin routes
	adminRouter := authRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin)
	adminRouter.HandleFunc("/users", h.AdminListUsers).Methods("GET")
	adminRouter.HandleFunc("/accounts", h.AdminListAccounts).Methods("GET")
	adminRouter.HandleFunc("/transactions", h.AdminListTransactions).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
