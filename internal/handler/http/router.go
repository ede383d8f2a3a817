package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/handler/http/middleware"
	"github.com/presensia/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	logger *slog.Logger,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	reportHandler ReportHandler,
	employeeHandler EmployeeHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionAttendanceCheck)).
					Post("/check-in", attendanceHandler.CheckIn)
				r.With(middleware.RequirePermission(employee.PermissionAttendanceCheck)).
					Post("/check-out", attendanceHandler.CheckOut)
				r.With(middleware.RequirePermission(employee.PermissionAttendanceViewAll)).
					Get("/", attendanceHandler.List)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.With(middleware.RequirePermission(employee.PermissionLeaveRequest)).
						Post("/", leaveHandler.Submit)
					r.With(middleware.RequirePermission(employee.PermissionLeaveRequest)).
						Get("/", leaveHandler.ListMine)
					r.With(middleware.RequirePermission(employee.PermissionLeaveDecide)).
						Post("/{id}/decision", leaveHandler.Decide)
				})
				r.With(middleware.RequirePermission(employee.PermissionLeaveViewBalance)).
					Get("/balance", leaveHandler.Balance)
			})

			r.Route("/reports", func(r chi.Router) {
				r.With(middleware.RequirePermission(employee.PermissionReportsGenerate)).
					Post("/run", reportHandler.Run)
				r.With(middleware.RequirePermission(employee.PermissionReportsView)).
					Get("/", reportHandler.List)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermissionEmployeeManage))
				r.Post("/", employeeHandler.Create)
				r.Get("/{id}", employeeHandler.Get)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequirePermission(employee.PermissionNotificationsView))
				r.Get("/", notificationHandler.List)
				r.Post("/read", notificationHandler.MarkAsRead)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return r
}
