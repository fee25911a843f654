package net

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lost-and-hound/server/internal/leaderboard"
	"lost-and-hound/server/internal/sim"
	"lost-and-hound/server/internal/world"
)

// Leaderboard is the slice of the persistence layer the API needs.
type Leaderboard interface {
	Records(start, maxItems int) ([]leaderboard.RetiredPlayer, error)
}

// Server exposes the game over HTTP and WebSocket.
type Server struct {
	loop    *sim.Loop
	records Leaderboard
	hub     *Hub
	logger  *zap.Logger
}

// NewServer wires the API against a running loop. records may be nil
// when no database is configured; the records endpoint then reports
// service unavailable.
func NewServer(loop *sim.Loop, records Leaderboard, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{loop: loop, records: records, hub: hub, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1")
	api.POST("/game/join", s.handleJoin)
	api.GET("/game/records", s.handleRecords)
	api.GET("/maps", s.handleMaps)
	api.GET("/maps/:id", s.handleMap)
	if s.loop.Manual() {
		api.POST("/game/tick", s.handleTick)
	}

	auth := api.Group("", s.requireToken)
	auth.GET("/game/players", s.handlePlayers)
	auth.GET("/game/state", s.handleState)
	auth.POST("/game/player/action", s.handleAction)

	if s.hub != nil {
		router.GET("/ws", s.hub.handleUpgrade)
	}

	return router
}

const tokenContextKey = "playerToken"

// requireToken extracts the bearer token and resolves it to a live
// player before letting the request through.
func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	if _, ok := s.loop.FindPlayerByToken(token); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown token"})
		return
	}
	c.Set(tokenContextKey, token)
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type joinRequest struct {
	MapID string `json:"mapId" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

type joinResponse struct {
	Token    string `json:"token"`
	PlayerID int    `json:"playerId"`
}

func (s *Server) handleJoin(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mapId and name are required"})
		return
	}

	result, err := s.loop.JoinGame(req.Name, req.MapID)
	if err != nil {
		switch {
		case errors.Is(err, world.ErrUnknownMap):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, world.ErrEmptyName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.logger.Error("join failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "join failed"})
		}
		return
	}

	c.JSON(http.StatusOK, joinResponse{Token: result.Token, PlayerID: result.PlayerID})
}

type actionRequest struct {
	Move string `json:"move"`
}

func (s *Server) handleAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed action"})
		return
	}

	token := c.GetString(tokenContextKey)
	player, ok := s.loop.FindPlayerByToken(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown token"})
		return
	}

	if err := s.loop.SetPlayerAction(player.ID, req.Move); err != nil {
		switch {
		case errors.Is(err, world.ErrInvalidMove):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, world.ErrUnknownPlayer):
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "action failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePlayers(c *gin.Context) {
	token := c.GetString(tokenContextKey)
	c.JSON(http.StatusOK, gin.H{"players": playerViews(s.loop.GetPlayers(token))})
}

func (s *Server) handleState(c *gin.Context) {
	token := c.GetString(tokenContextKey)
	c.JSON(http.StatusOK, gin.H{"players": playerViews(s.loop.GetGameState(token))})
}

func (s *Server) handleTick(c *gin.Context) {
	deltaMS := 50
	if raw := c.Query("deltaMs"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deltaMs must be a positive integer"})
			return
		}
		deltaMS = parsed
	}
	s.loop.Tick(time.Duration(deltaMS) * time.Millisecond)
	c.JSON(http.StatusOK, s.loop.Snapshot())
}

func (s *Server) handleRecords(c *gin.Context) {
	if s.records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard not configured"})
		return
	}

	start := 0
	maxItems := 10
	if raw := c.Query("start"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a non-negative integer"})
			return
		}
		start = parsed
	}
	if raw := c.Query("maxItems"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > leaderboard.MaxPageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxItems must be between 1 and 100"})
			return
		}
		maxItems = parsed
	}

	records, err := s.records.Records(start, maxItems)
	if err != nil {
		s.logger.Error("read records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "records unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleMaps(c *gin.Context) {
	maps := s.loop.Maps()
	views := make([]mapView, 0, len(maps))
	for _, m := range maps {
		views = append(views, newMapView(m))
	}
	c.JSON(http.StatusOK, gin.H{"maps": views})
}

func (s *Server) handleMap(c *gin.Context) {
	m, ok := s.loop.FindMap(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown map"})
		return
	}
	c.JSON(http.StatusOK, newMapView(m))
}
