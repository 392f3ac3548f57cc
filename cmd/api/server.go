package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"staffbook/auth"
	"staffbook/docstore"
	"staffbook/employee"
)

// authService is the slice of auth.Service the handlers need.
type authService interface {
	SignIn(ctx context.Context, req auth.LoginRequest) (auth.Session, error)
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	VerifyToken(token string) (userID, email string, err error)
}

// Server exposes the employee core over HTTP JSON. It holds one list
// controller, the facade's counterpart of the single visible list screen.
type Server struct {
	auth   authService
	store  docstore.Store
	list   *employee.ListController
	logger *slog.Logger
}

// NewServer wires handlers around the given collaborators.
func NewServer(authSvc authService, store docstore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:   authSvc,
		store:  store,
		list:   employee.NewListController(store),
		logger: logger,
	}
}

// Handler returns the routed http.Handler. Employee routes are gated behind
// a valid bearer token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.Handle("GET /api/employees", s.requireAuth(s.handleListEmployees))
	mux.Handle("POST /api/employees", s.requireAuth(s.handleCreateEmployee))
	mux.Handle("DELETE /api/employees/{id}", s.requireAuth(s.handleDeleteEmployee))
	return mux
}

type signInResponse struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.auth.SignIn(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error("sign in failed", "error", err)
		writeError(w, http.StatusBadGateway, "sign in failed")
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{
		Token: session.Token,
		UID:   session.Identity.UID,
		Email: session.Identity.Email,
	})
}

type registerResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "email already exists")
		default:
			s.logger.Error("register failed", "error", err)
			writeError(w, http.StatusBadRequest, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	})
}

type employeeResponse struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	EmployeeID     string  `json:"employee_id"`
	Department     string  `json:"department"`
	Position       string  `json:"position"`
	PhoneNumber    string  `json:"phone_number"`
	Salary         float64 `json:"salary"`
	EmploymentType string  `json:"employment_type"`
	CreatedAt      string  `json:"created_at"`
	Deleting       bool    `json:"deleting"`
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	if err := s.list.Refresh(r.Context()); err != nil {
		s.logger.Error("refresh employees failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to load employees")
		return
	}

	records := s.list.Records()
	out := make([]employeeResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, employeeResponse{
			ID:             rec.ID,
			FullName:       rec.FullName,
			Email:          rec.Email,
			EmployeeID:     rec.EmployeeID,
			Department:     rec.Department,
			Position:       rec.Position,
			PhoneNumber:    rec.PhoneNumber,
			Salary:         rec.Salary,
			EmploymentType: string(rec.EmploymentType),
			CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339),
			Deleting:       s.list.Deleting(rec.ID),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

type createEmployeeRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phone_number"`
	Position    string `json:"position"`
	Salary      string `json:"salary"`
	FullTime    bool   `json:"full_time"`
}

type createEmployeeResponse struct {
	ID string `json:"id"`
}

type rejectedResponse struct {
	FieldErrors employee.FieldErrors `json:"field_errors"`
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := employee.NewForm(s.store)
	form.SetFields(employee.Fields{
		FullName:    req.FullName,
		Email:       req.Email,
		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		PhoneNumber: req.PhoneNumber,
		Position:    req.Position,
		Salary:      req.Salary,
	})
	form.SetFullTime(req.FullTime)

	result, err := form.Submit(r.Context())
	if err != nil {
		s.logger.Error("submit employee failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to save employee")
		return
	}
	if result.Rejected() {
		writeJSON(w, http.StatusUnprocessableEntity, rejectedResponse{FieldErrors: result.FieldErrors})
		return
	}

	writeJSON(w, http.StatusCreated, createEmployeeResponse{ID: result.InsertedID})
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	// The irreversible delete needs an explicit confirmation from the caller.
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "delete requires confirm=true")
		return
	}

	id := r.PathValue("id")
	err := s.list.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, employee.ErrDeleteInFlight):
		writeError(w, http.StatusConflict, "delete already in progress")
	case errors.Is(err, employee.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "employee not found")
	default:
		s.logger.Error("delete employee failed", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "failed to delete employee")
	}
}

func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, _, err := s.auth.VerifyToken(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
