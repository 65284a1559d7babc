// Package server owns the HTTP surface: the websocket endpoint the game
// clients speak to, plus a health check. Everything stateful lives in the
// game hub; this is a thin outer shell.
package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Vlad-Goncharow/myGeoGuesserServer/internal/game"
)

type Server struct {
	log *zap.Logger
	hub *game.Hub
}

func New(log *zap.Logger, hub *game.Hub) *Server {
	return &Server{log: log, hub: hub}
}

// HTTPServer wires the routes into a ready-to-run http.Server.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
