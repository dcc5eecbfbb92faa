// Package httpapi exposes the session lifecycle over HTTP. It is a thin
// collaborator: it decodes request shapes, delegates to the session service,
// and maps typed failures onto status codes. Domain validation lives in the
// service, not here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/lorenzotiziani/authcore/internal/logging"
	"github.com/lorenzotiziani/authcore/internal/server/auth"
	"github.com/lorenzotiziani/authcore/internal/server/models"
	"github.com/lorenzotiziani/authcore/internal/server/services"
)

// Sessions is the slice of the session service the transport consumes.
type Sessions interface {
	Register(ctx context.Context, email, password, confirm, firstName, lastName string) (*models.SanitizedUser, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*services.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccessToken(tokenString string) (*auth.Claims, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*models.SanitizedUser, error)
	ListUsers(ctx context.Context) ([]*models.SanitizedUser, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*models.SanitizedUser, error)
}

type Server struct {
	addr     string
	logger   logging.Logger
	sessions Sessions
	handler  http.Handler
}

func NewServer(addr string, logger logging.Logger, sessions Sessions, corsOrigins []string) *Server {
	s := &Server{addr: addr, logger: logger, sessions: sessions}

	r := mux.NewRouter()

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	u := r.PathPrefix("/users").Subrouter()
	u.Use(s.authenticate)
	u.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	u.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	u.HandleFunc("/change-password", s.handleChangePassword).Methods(http.MethodPut)
	u.HandleFunc("/deleteAccount", s.handleDeleteAccount).Methods(http.MethodDelete)
	u.HandleFunc("", s.handleListUsers).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	s.handler = c.Handler(r)

	return s
}

// Handler returns the fully wired HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
