package main

import (
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/draftleague/go/internal/api/draft/v1/draftv1connect"
	"github.com/mcdev12/draftleague/go/internal/api/freeagency/v1/freeagencyv1connect"
	"github.com/mcdev12/draftleague/go/internal/authz"
)

func setupServer(cfg Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Error-Code", "Error-Http-Status"},
	})

	// Register services
	registerServices(mux, services)

	// Add health check endpoint
	setupHealthCheck(mux)

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	interceptors := connect.WithInterceptors(authz.NewInterceptor())

	// Register session service
	sessionPath, sessionHandler := draftv1connect.NewSessionServiceHandler(services.Sessions, interceptors)
	mux.Handle(sessionPath, sessionHandler)

	// Register pick service
	pickPath, pickHandler := draftv1connect.NewPickServiceHandler(services.Picks, interceptors)
	mux.Handle(pickPath, pickHandler)

	// Register free agency service
	freeAgencyPath, freeAgencyHandler := freeagencyv1connect.NewFreeAgencyServiceHandler(services.FreeAgency, interceptors)
	mux.Handle(freeAgencyPath, freeAgencyHandler)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
