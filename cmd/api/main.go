package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/presensia/attendance-backend-go/internal/config"
	appHTTP "github.com/presensia/attendance-backend-go/internal/handler/http"
	"github.com/presensia/attendance-backend-go/internal/pkg/cron"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
	"github.com/presensia/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/presensia/attendance-backend-go/internal/service/attendance"
	employeeService "github.com/presensia/attendance-backend-go/internal/service/employee"
	leaveService "github.com/presensia/attendance-backend-go/internal/service/leave"
	notificationService "github.com/presensia/attendance-backend-go/internal/service/notification"
	reportService "github.com/presensia/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	requestRepo := postgresql.NewLeaveRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	dispatcher := notificationService.NewNotificationService(
		notificationRepo,
		employeeRepo,
		notificationService.LogDeliverer{Logger: logger},
		logger,
		notificationService.Config{},
	)
	defer dispatcher.Stop()

	ledger := leaveService.NewLeaveLedger(balanceRepo, cfg.Attendance)
	cutoff := attendanceService.Cutoff{
		Hour:   cfg.Attendance.CutoffHour,
		Minute: cfg.Attendance.CutoffMinute,
	}
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, ledger, dispatcher, cutoff)
	requestSvc := leaveService.NewLeaveRequestService(db, requestRepo, ledger, dispatcher)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, balanceRepo, cfg.Attendance)
	reportSvc := reportService.NewReportService(reportRepo, attendanceRepo, employeeRepo, logger)

	scheduler := cron.NewScheduler(logger)
	scheduler.AddJob("monthly-report", 24*time.Hour, cron.MonthlyReportJob(reportSvc))
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		logger,
		jwtService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(requestSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewNotificationHandler(dispatcher),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}
