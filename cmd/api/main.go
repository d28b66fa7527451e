package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/config"
	appHTTP "github.com/shiftlog/timekeeper-go/internal/handler/http"
	"github.com/shiftlog/timekeeper-go/internal/pkg/cron"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
	"github.com/shiftlog/timekeeper-go/internal/pkg/jwt"
	"github.com/shiftlog/timekeeper-go/internal/pkg/obs"
	"github.com/shiftlog/timekeeper-go/internal/repository/postgresql"
	attendanceService "github.com/shiftlog/timekeeper-go/internal/service/attendance"
	recoveryService "github.com/shiftlog/timekeeper-go/internal/service/recovery"
	sessionService "github.com/shiftlog/timekeeper-go/internal/service/session"
	shiftService "github.com/shiftlog/timekeeper-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	dsn := cfg.DatabaseURL()
	if err := database.Migrate(dsn); err != nil {
		fmt.Println("Error applying migrations:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	obs.Init()

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	shiftSvc := shiftService.NewShiftService(db, shiftRepo, assignmentRepo, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, sessionRepo, shiftSvc, loc)
	lifecycleSvc := sessionService.NewLifecycleService(sessionRepo, userRepo, attendanceSvc, loc, nil)
	manualSvc := sessionService.NewManualEntryService(db, sessionRepo, userRepo, auditRepo, attendanceSvc)
	recoverySvc := recoveryService.NewRecoveryService(userRepo, sessionRepo, attendanceRepo, attendanceSvc, loc, nil)

	scheduler := cron.NewScheduler()
	cron.RegisterRecoveryJobs(scheduler, recoverySvc, cfg.Sweep, loc)
	scheduler.Start()
	defer scheduler.Stop()

	sessionHandler := appHTTP.NewSessionHandler(lifecycleSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	manualHandler := appHTTP.NewManualSessionHandler(manualSvc, auditRepo)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	recoveryHandler := appHTTP.NewRecoveryHandler(recoverySvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		sessionHandler,
		attendanceHandler,
		manualHandler,
		shiftHandler,
		recoveryHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", slog.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", slog.Any("error", err))
	}
}
