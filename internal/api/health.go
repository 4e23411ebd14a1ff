package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthDB probes the store with SELECT 1. 200 or 503, never a generic 500.
func (s *Server) healthDB(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "database": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "database": "connected"})
}

// keepalive exists for external cron monitors; same probe, smaller body.
func (s *Server) keepalive(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
