package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"cargoflow/backend"
	"cargoflow/booking"
	"cargoflow/guard"
	"cargoflow/logger"
	"cargoflow/quote"
	"cargoflow/reporting"
	"cargoflow/session"
)

// authAPI is the slice of the backend client the auth views use.
type authAPI interface {
	Login(ctx context.Context, email, password string) (backend.LoginResult, error)
	Register(ctx context.Context, req backend.RegisterRequest) (string, error)
}

// bookingService is the booking view dependency.
type bookingService interface {
	Submit(ctx context.Context, token string, form booking.Form) (backend.BookingReceipt, error)
}

// reportService feeds the dashboard views.
type reportService interface {
	Shipments(ctx context.Context, token, status string, limit int) ([]backend.Shipment, error)
	Payments(ctx context.Context, token string, limit int) (reporting.PaymentSummary, error)
	Users(ctx context.Context, token string, limit int) ([]backend.AccountSummary, error)
}

// Server holds the view-layer dependencies and owns the route table.
type Server struct {
	sessions *session.Manager
	auth     authAPI
	wizard   *quote.Wizard
	bookings bookingService
	reports  reportService
	log      *logger.Logger
}

func newServer(sessions *session.Manager, auth authAPI, wizard *quote.Wizard, bookings bookingService, reports reportService, log *logger.Logger) *Server {
	return &Server{
		sessions: sessions,
		auth:     auth,
		wizard:   wizard,
		bookings: bookings,
		reports:  reports,
		log:      log,
	}
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func identityFromContext(ctx context.Context) *session.Identity {
	id, _ := ctx.Value(ctxKeyIdentity).(*session.Identity)
	return id
}

// routes builds the route table. Role sets mirror the views: dashboards need
// any logged-in role, the user listing needs an admin, payment reporting is
// superadmin-only. The quote wizard and auth endpoints are public.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/session", s.handleSession)

		r.Route("/quote", func(r chi.Router) {
			r.Get("/", s.handleQuoteState)
			r.Post("/type", s.handleQuoteType)
			r.Post("/details", s.handleQuoteDetails)
			r.Post("/back", s.handleQuoteBack)
			r.Post("/reset", s.handleQuoteReset)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRoles())
			r.Post("/bookings", s.handleCreateBooking)
			r.Get("/shipments", s.handleShipments)
			r.Get("/payments", s.handlePayments)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRoles(session.RoleAdmin, session.RoleSuperadmin))
			r.Get("/admin/users", s.handleUsers)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRoles(session.RoleSuperadmin))
			r.Get("/admin/payments", s.handleAdminPayments)
		})
	})

	return r
}

// requireRoles applies the route guard to everything underneath. The mapping
// of decisions onto HTTP is fixed: pending renders a retryable waiting
// response, never a redirect.
func (s *Server) requireRoles(roles ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := s.sessions.Snapshot()

			switch guard.Decide(snap, roles) {
			case guard.Pending:
				w.Header().Set("Retry-After", "1")
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, errorBody{Error: "verifying session"})
			case guard.DenyLogin:
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, errorBody{Error: "login required", Location: "/login"})
			case guard.DenyRole:
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, errorBody{Error: "not authorized for this view", Location: "/unauthorized"})
			case guard.Allow:
				ctx := context.WithValue(r.Context(), ctxKeyIdentity, snap.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

type errorBody struct {
	Error    string `json:"error"`
	Location string `json:"location,omitempty"`
}

type fieldErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
