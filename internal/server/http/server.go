// Package http exposes the REST surface of the task tracker: signup/signin
// plus owner-scoped task CRUD behind a bearer-token middleware.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gorilla/mux"
)

type HTTPServer struct {
	address   string
	users     *services.UserService
	tasks     *services.TaskService
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ts *services.TaskService, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		tasks:     ts,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Router builds the mux with all routes registered. Task routes sit behind
// the access-token middleware.
func (s *HTTPServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/auth/signup", s.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/auth/signin", s.SignIn).Methods(http.MethodPost)

	protected := router.PathPrefix("/tasks").Subrouter()
	protected.Use(s.accessTokenMiddleware)
	protected.HandleFunc("", s.ListTasks).Methods(http.MethodGet)
	protected.HandleFunc("", s.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/{id}", s.GetTask).Methods(http.MethodGet)
	protected.HandleFunc("/{id}", s.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/{id}/status", s.UpdateTaskStatus).Methods(http.MethodPatch)

	return router
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
