// Package rest exposes the note service over a JSON HTTP API built on chi.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const shutdownTimeout = 10 * time.Second

// UserService is the subset of services.UserService used by the handlers.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ResolveCaller(ctx context.Context, token string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
}

// NoteService is the subset of services.NoteService used by the handlers.
type NoteService interface {
	Create(ctx context.Context, caller *models.User, title, content string) (*models.Note, error)
	List(ctx context.Context, caller *models.User) ([]*models.Note, error)
	Get(ctx context.Context, caller *models.User, id int64) (*models.Note, error)
	Update(ctx context.Context, caller *models.User, id int64, title, content string) (*models.Note, error)
	Delete(ctx context.Context, caller *models.User, id int64) (*models.Note, error)
	Export(ctx context.Context, caller *models.User) (*models.NoteExport, error)
}

type Server struct {
	address string
	users   UserService
	notes   NoteService
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, us UserService, ns NoteService) *Server {
	return &Server{
		address: address,
		users:   us,
		notes:   ns,
		logger:  l.With("module", "http_server"),
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
