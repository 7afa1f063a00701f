// Package api exposes the pipeline over HTTP.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/orchestrator"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

const maxConversations = 10000

// #region server

// Server holds the HTTP handlers. Conversations are kept in memory per id.
type Server struct {
	orch     *orchestrator.Orchestrator
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu            sync.Mutex
	conversations map[string]*orchestrator.Conversation
	order         []string
}

// NewServer wraps an orchestrator.
func NewServer(orch *orchestrator.Orchestrator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		orch:          orch,
		logger:        logger.Named("api"),
		conversations: make(map[string]*orchestrator.Conversation),
	}
}

// Routes builds the gin engine.
func (s *Server) Routes() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/metrics", gin.WrapH(s.orch.Metrics().Handler()))
	engine.POST("/v1/process", s.handleProcess)
	engine.POST("/v1/diagnose", s.handleDiagnose)
	engine.GET("/v1/chat", s.handleChatStream)
	engine.GET("/v1/strictness", s.handleGetStrictness)
	engine.PUT("/v1/strictness", s.handleSetStrictness)
	return engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// #endregion

// #region handlers

type turnRequest struct {
	Text           string              `json:"text"`
	ConversationID string              `json:"conversation_id,omitempty"`
	Seeds          []seed.Seed         `json:"seeds,omitempty"`
	Similarities   []neural.Similarity `json:"similarities,omitempty"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleProcess(c *gin.Context) {
	req, ok := bindTurn(c)
	if !ok {
		return
	}
	res := s.orch.Process(c.Request.Context(), orchestrator.Request{
		Text:         req.Text,
		Seeds:        req.Seeds,
		Similarities: req.Similarities,
		Conversation: s.conversation(req.ConversationID),
	})
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleDiagnose(c *gin.Context) {
	req, ok := bindTurn(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.orch.Diagnose(c.Request.Context(), orchestrator.Request{
		Text:         req.Text,
		Seeds:        req.Seeds,
		Similarities: req.Similarities,
	}))
}

type strictnessRequest struct {
	Level rubric.Level `json:"level"`
}

func (s *Server) handleGetStrictness(c *gin.Context) {
	c.JSON(http.StatusOK, s.orch.Strictness().Current())
}

func (s *Server) handleSetStrictness(c *gin.Context) {
	var req strictnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.orch.Strictness().SetLevel(req.Level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Info("strictness changed", zap.String("level", string(req.Level)))
	c.JSON(http.StatusOK, s.orch.Strictness().Current())
}

func bindTurn(c *gin.Context) (turnRequest, bool) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return req, false
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return req, false
	}
	return req, true
}

// #endregion

// #region conversations

// conversation returns the state for id, creating it on first use. The
// oldest conversation is dropped once maxConversations is reached.
func (s *Server) conversation(id string) *orchestrator.Conversation {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[id]; ok {
		return conv
	}
	if len(s.order) >= maxConversations {
		delete(s.conversations, s.order[0])
		s.order = s.order[1:]
	}
	conv := orchestrator.NewConversation()
	s.conversations[id] = conv
	s.order = append(s.order, id)
	return conv
}

// #endregion
