// Package server exposes sticker chats over HTTP and websocket.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/tbxark/stickeragent/agent"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// FlowFactory builds the chat for a new session. sink must be installed as
// the session's MessageSink so websocket clients see its replies.
type FlowFactory func(id string, sink agent.MessageSink) (*agent.Flow, error)

type Server struct {
	app     *fiber.App
	manager *agent.Manager
	hub     *Hub
}

// New builds the server. Sessions idle for longer than ttl are closed and
// their websocket clients disconnected; ttl <= 0 keeps sessions forever.
func New(ttl time.Duration, factory FlowFactory) *Server {
	hub := NewHub()
	var cache agent.Cache[*agent.Flow]
	if ttl > 0 {
		cache = agent.NewGoCache(ttl, ttl/2, func(_ string, flow *agent.Flow) {
			id := flow.Session().ID()
			flow.Session().Close()
			hub.closeSession(id)
			slog.Info("Session expired", "session", id)
		})
	} else {
		cache = agent.NewMemoryCache[*agent.Flow]()
	}
	s := &Server{
		hub: hub,
		manager: agent.NewManager(cache, func(id string) (*agent.Flow, error) {
			return factory(id, hub.Sink(id))
		}),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "stickeragent",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.registerRoutes()
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	slog.Info("Server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api/sessions")
	api.Post("/", s.createSession)
	api.Get("/:id", s.getSession)
	api.Delete("/:id", s.resetSession)
	api.Post("/:id/messages", s.postMessage)
	api.Post("/:id/actions", s.postAction)
	api.Post("/:id/photos", s.postPhotos)
	api.Post("/:id/preview", s.postPreview)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/sessions/:id", s.checkSession, websocket.New(s.stream))
}

// errorHandler renders every error as {"error": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, agent.ErrSessionNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, agent.ErrEmptyMessage):
		code = fiber.StatusBadRequest
	}
	if code >= fiber.StatusInternalServerError {
		slog.Warn("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) flow(c *fiber.Ctx) (*agent.Flow, error) {
	return s.manager.Get(agent.WithSessionID(c.UserContext(), c.Params("id")))
}

func (s *Server) checkSession(c *fiber.Ctx) error {
	if _, err := s.flow(c); err != nil {
		return err
	}
	return c.Next()
}

func (s *Server) stream(conn *websocket.Conn) {
	id := conn.Params("id")
	sub := s.hub.subscribe(id)
	slog.Info("Websocket session started", "session", id)

	go s.writePump(conn, sub)
	s.readPump(conn, id, sub)
	slog.Info("Websocket session ended", "session", id)
}

// readPump only watches for the client going away.
func (s *Server) readPump(conn *websocket.Conn, id string, sub *subscriber) {
	defer func() {
		s.hub.unsubscribe(id, sub)
		_ = conn.Close()
	}()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("Websocket read failed", "session", id, "error", err)
			}
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
