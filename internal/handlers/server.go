package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"terrapulse/internal/auth"
	"terrapulse/internal/config"
	"terrapulse/internal/middleware"
	"terrapulse/internal/validation"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the handlers that do not belong to a domain package: health and
// the admin cookie flow.
type Server struct {
	Cfg  *config.Config
	Val  *validation.Validator
	Log  *slog.Logger
	Auth *auth.Manager

	// AdminHash is the bcrypt hash admin logins are checked against.
	AdminHash string

	Checks map[string]Pinger
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	return middleware.WithRequest(s.Log, r)
}
