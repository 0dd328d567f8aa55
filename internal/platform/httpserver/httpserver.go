// Package httpserver builds the shared API server configuration.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Header reads, request bodies, and idle
// keep-alives are all bounded so a stalled client cannot pin a connection.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
