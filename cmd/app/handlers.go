package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"cargoflow/backend"
	"cargoflow/booking"
	"cargoflow/forms"
	"cargoflow/quote"
	"cargoflow/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Loading bool              `json:"loading"`
	User    *session.Identity `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "this field is required"
	}
	if req.Password == "" {
		fields["password"] = "this field is required"
	}
	if len(fields) > 0 {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, fieldErrorBody{Error: "invalid login form", Fields: fields})
		return
	}

	result, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrInvalidCredentials):
			s.respondError(w, r, http.StatusUnauthorized, "invalid email or password")
		default:
			s.log.Warn("login failed", "error", err)
			s.respondError(w, r, http.StatusBadGateway, "login is temporarily unavailable")
		}
		return
	}

	if err := s.sessions.Login(r.Context(), result.User, result.Token); err != nil {
		s.log.Error("persist session", "error", err)
		s.respondError(w, r, http.StatusInternalServerError, "could not save session")
		return
	}

	render.JSON(w, r, sessionResponse{User: &result.User})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req backend.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	for name, value := range map[string]string{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"email":     req.Email,
		"password":  req.Password,
	} {
		if value == "" {
			fields[name] = "this field is required"
		}
	}
	if len(fields) > 0 {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, fieldErrorBody{Error: "invalid registration form", Fields: fields})
		return
	}

	message, err := s.auth.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrRejected):
			s.respondError(w, r, http.StatusBadRequest, err.Error())
		default:
			s.log.Warn("registration failed", "error", err)
			s.respondError(w, r, http.StatusBadGateway, "registration is temporarily unavailable")
		}
		return
	}

	// No token comes back; the client switches to the login view.
	render.JSON(w, r, map[string]string{"message": message, "location": "/login"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		s.log.Warn("logout storage clear", "error", err)
	}
	render.JSON(w, r, map[string]string{"location": "/login"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := s.sessions.Snapshot()
	render.JSON(w, r, sessionResponse{Loading: snap.Loading, User: snap.Identity})
}

type quoteStateResponse struct {
	Step    string        `json:"step"`
	Request quote.Request `json:"request"`
	Result  *quote.Result `json:"result,omitempty"`
}

func (s *Server) quoteState() quoteStateResponse {
	return quoteStateResponse{
		Step:    s.wizard.Step().String(),
		Request: s.wizard.Request(),
		Result:  s.wizard.Result(),
	}
}

func (s *Server) handleQuoteState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.quoteState())
}

func (s *Server) handleQuoteType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShipmentType string `json:"shipmentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.wizard.SelectType(quote.ShipmentType(req.ShipmentType)); err != nil {
		switch {
		case errors.Is(err, quote.ErrWrongStep):
			s.respondError(w, r, http.StatusConflict, err.Error())
		default:
			s.respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	render.JSON(w, r, s.quoteState())
}

func (s *Server) handleQuoteDetails(w http.ResponseWriter, r *http.Request) {
	var details quote.Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.wizard.SubmitDetails(r.Context(), details)
	if err != nil {
		var fieldErrs forms.Errors
		switch {
		case errors.As(err, &fieldErrs):
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, fieldErrorBody{Error: "invalid shipment details", Fields: fieldErrs})
		case errors.Is(err, quote.ErrDistanceUnavailable):
			s.respondError(w, r, http.StatusBadGateway, "could not calculate distance")
		case errors.Is(err, quote.ErrCalculationPending):
			s.respondError(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, quote.ErrWrongStep):
			s.respondError(w, r, http.StatusConflict, err.Error())
		default:
			s.log.Error("quote calculation", "error", err)
			s.respondError(w, r, http.StatusInternalServerError, "could not calculate quote")
		}
		return
	}

	render.JSON(w, r, quoteStateResponse{Step: s.wizard.Step().String(), Request: s.wizard.Request(), Result: result})
}

func (s *Server) handleQuoteBack(w http.ResponseWriter, r *http.Request) {
	if err := s.wizard.Back(); err != nil {
		s.respondError(w, r, http.StatusConflict, err.Error())
		return
	}
	render.JSON(w, r, s.quoteState())
}

func (s *Server) handleQuoteReset(w http.ResponseWriter, r *http.Request) {
	s.wizard.Reset()
	render.JSON(w, r, s.quoteState())
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var form booking.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := s.bookings.Submit(r.Context(), s.sessions.Token(), form)
	if err != nil {
		var fieldErrs forms.Errors
		switch {
		case errors.As(err, &fieldErrs):
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, fieldErrorBody{Error: "invalid booking form", Fields: fieldErrs})
		case errors.Is(err, backend.ErrUnauthenticated):
			s.respondError(w, r, http.StatusUnauthorized, "login required")
		case errors.Is(err, backend.ErrRejected):
			s.respondError(w, r, http.StatusBadRequest, err.Error())
		default:
			s.log.Warn("booking submission failed", "error", err)
			s.respondError(w, r, http.StatusBadGateway, "booking is temporarily unavailable")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"trackingId": receipt.TrackingID, "message": receipt.Message})
}

func (s *Server) handleShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := s.reports.Shipments(r.Context(), s.sessions.Token(), r.URL.Query().Get("status"), queryLimit(r))
	if err != nil {
		s.respondListError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"items": shipments, "total": len(shipments)})
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.Payments(r.Context(), s.sessions.Token(), queryLimit(r))
	if err != nil {
		s.respondListError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"items":     summary.Payments,
		"total":     len(summary.Payments),
		"totalPaid": summary.TotalPaid,
	})
}

func (s *Server) handleAdminPayments(w http.ResponseWriter, r *http.Request) {
	s.handlePayments(w, r)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.reports.Users(r.Context(), s.sessions.Token(), queryLimit(r))
	if err != nil {
		s.respondListError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"items": users, "total": len(users)})
}

func (s *Server) respondListError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.respondError(w, r, http.StatusUnauthorized, "login required")
		return
	}
	s.log.Warn("dashboard listing failed", "error", err)
	s.respondError(w, r, http.StatusBadGateway, "dashboard is temporarily unavailable")
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: msg})
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
