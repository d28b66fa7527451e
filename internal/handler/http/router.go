package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftlog/timekeeper-go/internal/config"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/middleware"
	"github.com/shiftlog/timekeeper-go/internal/pkg/jwt"
	"github.com/shiftlog/timekeeper-go/internal/pkg/obs"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	sessionHandler SessionHandler,
	attendanceHandler AttendanceHandler,
	manualHandler ManualSessionHandler,
	shiftHandler ShiftHandler,
	recoveryHandler RecoveryHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timekeeper"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Method("GET", "/metrics", obs.Handler())

	// Clock actions come from badge terminals and mobile clients that retry
	// aggressively; cap them per caller.
	clockLimiter := middleware.NewRateLimiter(2, 5)

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/sessions", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(clockLimiter.Handler)
					r.Post("/clock-in", sessionHandler.ClockIn)
					r.Post("/clock-out", sessionHandler.ClockOut)
					r.Post("/breaks/start", sessionHandler.StartBreak)
					r.Post("/breaks/end", sessionHandler.EndBreak)
				})
				r.Get("/active", sessionHandler.GetActive)

				// Manager and above: manual entry
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/manual", manualHandler.Create)
					r.Put("/manual/{sessionID}", manualHandler.Update)
				})

				// Admin only: manual deletion
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Delete("/manual/{sessionID}", manualHandler.Delete)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/me", attendanceHandler.GetMyDaily)
				r.Get("/me/records", attendanceHandler.ListMyRecords)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/users/{userID}", attendanceHandler.GetUserDaily)
					r.Get("/users/{userID}/records", attendanceHandler.ListUserRecords)
					r.Get("/users/{userID}/audit", manualHandler.ListAudit)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/me", shiftHandler.GetMyShift)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", shiftHandler.List)
					r.Post("/", shiftHandler.Create)
					r.Post("/users/{userID}/assignment", shiftHandler.Assign)
					r.Delete("/users/{userID}/assignment", shiftHandler.Unassign)
				})
			})

			// Admin only: operator triggers for the recovery sweeps
			r.Route("/recovery", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/absence-sweep", recoveryHandler.TriggerAbsenceSweep)
				r.Post("/stuck-sweep", recoveryHandler.TriggerStuckSweep)
			})
		})
	})
	return r
}
