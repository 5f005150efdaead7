package handlers

import (
	"net/http"
	"time"

	"bbq-storefront/metrics"
	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	Sessions *utils.SessionStore
	Secret   string
	TTL      time.Duration
	Metrics  *metrics.Registry
	Log      *zap.Logger
}

// CreateSession starts an anonymous shopping session and returns its token.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	s := h.Sessions.Create()

	token, err := utils.GenerateSessionToken(h.Secret, s.ID, h.TTL)
	if err != nil {
		h.Sessions.Delete(s.ID)
		h.Log.Error("failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	h.Metrics.ActiveSessions.Set(float64(h.Sessions.Len()))
	h.Log.Info("session created", zap.String("session_id", s.ID))

	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"token":      token,
		"expires_at": time.Now().Add(h.TTL),
	})
}
