// Copyright (c) 2026 Parsight. All rights reserved.

/*
Package stubapi is a self-contained in-memory rendition of the PARS backend.

It exists so the client can be exercised end to end without a deployment: the
demo command runs it on a loopback listener, and the integration tests drive
the full pipeline against it. It issues real signed bearer tokens and keeps
the backend's observable contract (paths, payload shapes, 401/403 split,
detail envelopes) faithful; persistence and upload processing are out of its
scope.
*/
package stubapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"parsight/internal/platform/sec"
)

// signingKey signs stub tokens. Verification happens only inside this
// process, so a fixed development key is fine.
const signingKey = "parsight-stub-signing-key"

// defaultTokenTTL is how long issued tokens stay valid.
const defaultTokenTTL = 30 * time.Minute

// account is one stored user plus its login secret.
type account struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     sec.UserRole      `json:"role"`
	Status   sec.AccountStatus `json:"status"`

	Password string `json:"-"`
}

// Server holds the in-memory state behind the stub endpoints.
type Server struct {
	mu       sync.Mutex
	accounts map[int64]*account
	records  []labelRecord
	nextID   int64
	tokenTTL time.Duration
	log      *slog.Logger
}

// Option customizes stub construction.
type Option func(*Server)

// WithTokenTTL overrides the issued-token lifetime. Tests use a negative
// value to mint already-expired credentials.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

// New builds a stub pre-seeded with the demo accounts and label records.
func New(log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		accounts: map[int64]*account{},
		tokenTTL: defaultTokenTTL,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

// Router assembles the stub's route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.CleanPath)

	r.Post("/token", s.handleToken)
	r.Post("/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.With(s.requireApproved).Get("/upload-records/", s.handleListRecords)
		r.Delete("/users/me/", s.handleDeleteSelf)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/users/", s.handleListUsers)
			r.Post("/users/", s.handleCreateUser)
			r.Put("/users/approve/{id}", s.handleSetStatus(sec.StatusApproved))
			r.Put("/users/reject/{id}", s.handleSetStatus(sec.StatusRejected))
			r.Delete("/users/{id}", s.handleDeleteUser)
		})
	})

	return r
}

// # Token Issuance

type tokenEnvelope struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		detail(w, http.StatusBadRequest, "Malformed form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	s.mu.Lock()
	acct := s.findByUsername(username)
	s.mu.Unlock()

	if acct == nil || acct.Password != password {
		detail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := s.issueToken(acct)
	if err != nil {
		detail(w, http.StatusInternalServerError, "Token signing failed")
		return
	}

	s.log.Info("stub_token_issued", slog.String("username", acct.Username))
	writeJSON(w, http.StatusOK, tokenEnvelope{AccessToken: token, TokenType: "bearer"})
}

// issueToken mints a signed HS256 token carrying the identity claims the
// client decodes.
func (s *Server) issueToken(acct *account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    acct.Username,
		"email":  acct.Email,
		"role":   string(acct.Role),
		"status": string(acct.Status),
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
}

// # Registration

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		detail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if in.Username == "" || in.Email == "" || len(in.Password) < 8 {
		detail(w, http.StatusUnprocessableEntity, "Invalid registration input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUsername(in.Username) != nil {
		detail(w, http.StatusConflict, "Username is already taken")
		return
	}

	acct := &account{
		ID:       s.nextID,
		Username: in.Username,
		Email:    in.Email,
		Role:     sec.RoleUser,
		Status:   sec.StatusPending,
		Password: in.Password,
	}
	s.nextID++
	s.accounts[acct.ID] = acct

	writeJSON(w, http.StatusCreated, acct)
}

// # Authorization Middleware

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			detail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims := &sec.IdentityClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return []byte(signingKey), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			status := "Could not validate credentials"
			if errors.Is(err, jwt.ErrTokenExpired) {
				status = "Token has expired"
			}
			detail(w, http.StatusUnauthorized, status)
			return
		}

		// The freshest account state wins over the token snapshot, so an
		// approval or deletion takes effect without re-login.
		s.mu.Lock()
		acct := s.findByUsername(claims.Subject)
		s.mu.Unlock()
		if acct == nil {
			detail(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acct)))
	})
}

func (s *Server) requireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if acct := accountFrom(r.Context()); acct.Status != sec.StatusApproved {
			detail(w, http.StatusForbidden, "Account is awaiting approval")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if acct := accountFrom(r.Context()); acct.Role != sec.RoleAdmin {
			detail(w, http.StatusForbidden, "Administrator privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// # User Administration

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, acct)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		registerInput
		Role   sec.UserRole      `json:"role"`
		Status sec.AccountStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		detail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUsername(in.Username) != nil {
		detail(w, http.StatusConflict, "Username is already taken")
		return
	}

	acct := &account{
		ID:       s.nextID,
		Username: in.Username,
		Email:    in.Email,
		Role:     in.Role,
		Status:   in.Status,
		Password: in.Password,
	}
	s.nextID++
	s.accounts[acct.ID] = acct

	writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) handleSetStatus(status sec.AccountStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			detail(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		acct, ok := s.accounts[id]
		if !ok {
			detail(w, http.StatusNotFound, "User not found")
			return
		}
		acct.Status = status
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		detail(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.accounts, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSelf(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	s.mu.Lock()
	delete(s.accounts, acct.ID)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// findByUsername scans the account map. Callers hold the lock.
func (s *Server) findByUsername(username string) *account {
	for _, acct := range s.accounts {
		if acct.Username == username {
			return acct
		}
	}
	return nil
}

// # Response Helpers

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// detail writes the backend's error envelope.
func detail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
