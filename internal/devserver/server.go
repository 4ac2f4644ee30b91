package devserver

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"contactapp/cterm/internal/models"
)

type contextKey int

const userIDKey contextKey = iota

type account struct {
	user         models.User
	passwordHash string
}

// Server is an in-memory contact backend speaking the same REST contract as the
// production API. Each user sees only their own contacts.
type Server struct {
	logger *slog.Logger
	router *mux.Router

	mu            sync.RWMutex
	accounts      map[int64]*account
	byEmail       map[string]int64
	tokens        map[string]int64
	contacts      map[int64][]models.Contact
	nextUserID    int64
	nextContactID int64
}

func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:   logger,
		accounts: make(map[int64]*account),
		byEmail:  make(map[string]int64),
		tokens:   make(map[string]int64),
		contacts: make(map[int64][]models.Contact),
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireToken)
	authed.HandleFunc("/auth/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/contacts", s.handleListContacts).Methods(http.MethodGet)
	authed.HandleFunc("/contacts", s.handleCreateContact).Methods(http.MethodPost)
	authed.HandleFunc("/contacts/{id:[0-9]+}", s.handleUpdateContact).Methods(http.MethodPut)
	authed.HandleFunc("/contacts/{id:[0-9]+}", s.handleDeleteContact).Methods(http.MethodDelete)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("request_id", requestID),
			slog.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		s.mu.RLock()
		userID, found := s.tokens[token]
		s.mu.RUnlock()
		if !found {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
