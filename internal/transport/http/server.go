// Package httptransport builds the http.Server fronting the coaching API.
package httptransport

import (
	"net/http"
	"time"
)

// ServerConfig holds the listener address and per-request deadlines.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer wires handler into an *http.Server. Header reads share the
// read deadline so slow clients cannot hold a connection open headerless.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
