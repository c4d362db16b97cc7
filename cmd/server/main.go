package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/config"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/handler"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/repository"
	"github.com/alituydurr/sanatmerkezi-sub001/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	if err := repository.Migrate(context.Background(), db, logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	logger.Info("Initializing repositories...")
	userRepo := repository.NewUserRepository(db, logger)
	studentRepo := repository.NewStudentRepository(db, logger)
	planRepo := repository.NewPlanRepository(db, logger)
	paymentRepo := repository.NewPaymentRepository(db, logger)
	eventRepo := repository.NewEventRepository(db, logger)
	payrollRepo := repository.NewPayrollRepository(db, logger)
	financeRepo := repository.NewFinanceRepository(db, logger)
	emailSender := service.NewEmailSender(logger)

	logger.Info("Initializing services...")
	authService := service.NewAuthService(userRepo, emailSender, cfg.JWTSecret, cfg.TokenExpiry, cfg.BaseURL, logger)
	planService := service.NewPlanService(planRepo, studentRepo, logger)
	ledgerService := service.NewLedgerService(planRepo, paymentRepo, studentRepo, emailSender, logger)
	eventService := service.NewEventService(eventRepo, logger)
	payrollService := service.NewPayrollService(payrollRepo, userRepo, logger)
	financeService := service.NewFinanceService(financeRepo, logger)

	logger.Info("Initializing API handlers...")
	authHandler := handler.NewAuthHandler(authService, logger)
	planHandler := handler.NewPlanHandler(planService, ledgerService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)
	payrollHandler := handler.NewPayrollHandler(payrollService, logger)
	financeHandler := handler.NewFinanceHandler(financeService, logger)

	router := mux.NewRouter()

	// Public authentication routes.
	publicRouter := router.PathPrefix("/auth").Subrouter()
	authHandler.RegisterRoutes(publicRouter)

	// Protected API routes (JWT required).
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.AuthMiddleware(authService, logger))

	staffOnly := handler.RequireRoles(logger, model.RoleAdmin, model.RoleAdmin2)

	planRouter := apiRouter.PathPrefix("/plans").Subrouter()
	planRouter.Use(staffOnly)
	planHandler.RegisterRoutes(planRouter)

	studentRouter := apiRouter.PathPrefix("/students").Subrouter()
	studentRouter.Use(staffOnly)
	planHandler.RegisterStudentRoutes(studentRouter)

	eventRouter := apiRouter.PathPrefix("/events").Subrouter()
	eventRouter.Use(staffOnly)
	eventHandler.RegisterRoutes(eventRouter)

	// Teachers may read their own payroll entry; everything else is staff only.
	payrollReadRouter := apiRouter.PathPrefix("/payroll").Subrouter()
	payrollHandler.RegisterReadRoutes(payrollReadRouter)

	payrollRouter := apiRouter.PathPrefix("/payroll").Subrouter()
	payrollRouter.Use(staffOnly)
	payrollHandler.RegisterRoutes(payrollRouter)

	financeRouter := apiRouter.PathPrefix("/finance").Subrouter()
	financeRouter.Use(staffOnly)
	financeHandler.RegisterRoutes(financeRouter)

	// Morning digest of installments due, payments received and events
	// starting today.
	logger.Info("Scheduling daily payments digest...")
	c := cron.New()
	_, err = c.AddFunc("0 8 * * *", func() {
		today, err := financeService.TodaysPayments(context.Background())
		if err != nil {
			logger.WithError(err).Error("Failed to build daily payments digest")
			return
		}
		if err := emailSender.SendDailyDigest(cfg.AdminEmail, today); err != nil {
			logger.WithError(err).Error("Failed to send daily payments digest")
			return
		}
		logger.Info("Daily payments digest sent")
	})
	if err != nil {
		logger.Fatalf("Failed to schedule daily digest: %v", err)
	}
	c.Start()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	c.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	logger.Info("Server stopped")
}
