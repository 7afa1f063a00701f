package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/orchestrator"
)

const maxMessageBytes = 64 << 10

// #region stream

type streamError struct {
	Error string `json:"error"`
}

// handleChatStream runs one conversation per websocket connection. Each text
// frame carries a turnRequest; each reply is the orchestrator Result.
func (s *Server) handleChatStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	conv := orchestrator.NewConversation()
	s.logger.Debug("chat stream opened", zap.String("remote", c.Request.RemoteAddr))

	for {
		var req turnRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("chat stream read", zap.Error(err))
			}
			return
		}
		if req.Text == "" {
			if err := conn.WriteJSON(streamError{Error: "text required"}); err != nil {
				return
			}
			continue
		}
		res := s.orch.Process(c.Request.Context(), orchestrator.Request{
			Text:         req.Text,
			Seeds:        req.Seeds,
			Similarities: req.Similarities,
			Conversation: conv,
		})
		if err := conn.WriteJSON(res); err != nil {
			s.logger.Warn("chat stream write", zap.Error(err))
			return
		}
	}
}

// #endregion
