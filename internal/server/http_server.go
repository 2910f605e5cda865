package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/filipesarturi/summoner/internal/shop"
	"github.com/gorilla/websocket"
)

// Controller is the part of the supervisor the HTTP surface drives.
type Controller interface {
	Start(selection []shop.Pack) bool
	RequestStop()
	Running() bool
}

type HttpServer struct {
	logger       *slog.Logger
	controller   Controller
	hub          *Hub
	defaultPacks []string
	upgrader     websocket.Upgrader
	mux          *http.ServeMux
}

type startRequest struct {
	Packs []string `json:"packs"`
}

type statusResponse struct {
	Running bool   `json:"running"`
	Message string `json:"message,omitempty"`
}

// New builds the control surface. defaultPacks is started when /start carries no selection.
func New(logger *slog.Logger, controller Controller, hub *Hub, defaultPacks []string) *HttpServer {
	s := &HttpServer{
		logger:       logger,
		controller:   controller,
		hub:          hub,
		defaultPacks: defaultPacks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /start", s.start)
	s.mux.HandleFunc("POST /stop", s.stop)
	s.mux.HandleFunc("GET /status", s.status)
	s.mux.HandleFunc("GET /ws", s.ws)

	return s
}

func (s *HttpServer) Handler() http.Handler {
	return s.mux
}

// Listen serves on addr until ctx is done.
func (s *HttpServer) Listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.hub.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Control server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HttpServer) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, statusResponse{Running: s.controller.Running(), Message: "invalid payload"})
		return
	}

	names := req.Packs
	if len(names) == 0 {
		names = s.defaultPacks
	}
	selection, err := shop.ParseSelection(names)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Running: s.controller.Running(), Message: err.Error()})
		return
	}

	if !s.controller.Start(selection) {
		writeJSON(w, http.StatusConflict, statusResponse{Running: true, Message: "already running"})
		return
	}

	writeJSON(w, http.StatusAccepted, statusResponse{Running: true})
}

func (s *HttpServer) stop(w http.ResponseWriter, _ *http.Request) {
	s.controller.RequestStop()
	writeJSON(w, http.StatusAccepted, statusResponse{Running: s.controller.Running()})
}

func (s *HttpServer) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Running: s.controller.Running()})
}

func (s *HttpServer) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := s.hub.register(conn)
	go c.writePump()

	// The read side only watches for the peer going away.
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			s.hub.unregister(c)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
