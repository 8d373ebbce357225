package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/tictak/internal/api/controller"
	"ctchen222/tictak/internal/api/response"
	"ctchen222/tictak/internal/api/service"
	"ctchen222/tictak/internal/hub"
	"ctchen222/tictak/internal/hub/types"
	"ctchen222/tictak/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub      *hub.Hub
	guests   service.GuestService
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(h *hub.Hub, guests service.GuestService, guestController *controller.GuestController) *Server {
	s := &Server{
		hub:    h,
		guests: guests,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.RegisterHandlers(guestController)
	return s
}

func (s *Server) RegisterHandlers(guestController *controller.GuestController) {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	api.POST("/guest", guestController.GuestLogin)
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	response.SuccessResponse(c, gin.H{"status": "ok", "sessions": s.hub.Count()})
}

// handleWebSocket's only responsibility is to authenticate, upgrade the connection and pass a
// registration request to the hub. Every connection gets a fresh game session.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	// A token identifies a returning guest; without one the player is anonymous.
	playerID := uuid.New().String()
	if token := c.Query("token"); token != "" {
		id, err := s.guests.VerifyToken(token)
		if err != nil {
			slog.WarnContext(ctx, "rejected websocket token", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid token")
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			return
		}
		playerID = id
	}
	span.SetAttributes(attribute.String("player.id", playerID))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	req := &types.RegistrationRequest{
		Player: player.NewPlayer(playerID, conn),
		Ctx:    context.WithoutCancel(ctx),
	}
	select {
	case s.hub.Register() <- req:
	case <-ctx.Done():
		err := errors.Join(ctx.Err(), conn.Close())
		slog.WarnContext(ctx, "hub unavailable, dropping connection", "player.id", playerID, "error", err)
		span.SetStatus(codes.Error, "Hub unavailable")
	}
}
