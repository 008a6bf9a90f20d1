// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"ats-backend/internal/auth"
	"ats-backend/internal/config"
	"ats-backend/internal/database"
	"ats-backend/internal/logging"
	"ats-backend/internal/model"
	"ats-backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// MyServer holds every dependency the route handlers are built from.
type MyServer struct {
	Config      *config.Config
	DB          *database.DBinstanceStruct
	Storage     storage.StorageClient
	Blacklist   auth.JwtBlacklistStore
	Transitions model.TransitionPolicy
	GoogleOauth *oauth2.Config
	// UserInfoURL is where the Google profile is fetched after the code exchange.
	UserInfoURL string
}

// NewServer construct new MyServer instance
func NewServer(
	cfg *config.Config,
	db *database.DBinstanceStruct,
	store storage.StorageClient,
	blacklist auth.JwtBlacklistStore,
) *MyServer {
	return &MyServer{
		Config:      cfg,
		DB:          db,
		Storage:     store,
		Blacklist:   blacklist,
		Transitions: model.ParseTransitionPolicy(cfg.StatusTransitions),
		GoogleOauth: auth.NewGoogleOauthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL),
		UserInfoURL: auth.GoogleUserInfoEndpoint,
	}
}

// HTTPServer wraps the route table in an *http.Server listening on the configured port.
func (s *MyServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (s *MyServer) Serve(ctx context.Context) error {
	log := logging.Logger(ctx)
	srv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}
