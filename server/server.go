// Package server provides the gramq HTTP REST server, which stores grammars
// and checks inputs against them.
//
// Routes, all under /api/v1:
//
//	GET    /grammars                    - list stored grammars
//	POST   /grammars                    - store and normalize a new grammar
//	GET    /grammars/{id}               - get a grammar and its normal form
//	DELETE /grammars/{id}               - delete a grammar
//	POST   /grammars/{id}/recognitions  - check an input against a grammar
//	GET    /info                        - get version info on the server
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/gramq/server/api"
	"github.com/dekarrin/gramq/server/gqs"
)

// Server is an HTTP REST server that provides grammar storage and recognition.
// The zero-value of a Server should not be used directly; call New() to get
// one ready for use.
type Server struct {
	router http.Handler
	api    api.API
}

// New creates a new Server from cfg. Defaults are filled in for unset values
// before cfg is validated and its database connected.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	gs := &Server{
		api: api.API{
			Backend: gqs.Service{
				DB:             db,
				Workers:        cfg.Workers,
				MaxInputTokens: cfg.MaxInputTokens,
			},
			UnauthDelay: cfg.UnauthDelay(),
		},
	}
	gs.router = newRouter(gs.api, cfg.MaxBodyBytes)

	return gs, nil
}

// Service returns the service layer the server uses, for direct access to the
// backend from Go code.
func (gs *Server) Service() gqs.Service {
	return gs.api.Backend
}

// ServeHTTP routes a single request through the server's API.
func (gs *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	gs.router.ServeHTTP(w, req)
}

// Close closes the server's connection to its database.
func (gs *Server) Close() error {
	return gs.api.Backend.DB.Close()
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (gs *Server) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, gs))
}
