package main

import (
	"browser-dialer/internal/config"
	"browser-dialer/internal/telephony"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, cfg config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	tokenHandler := telephony.TokenHandler{
		Issuer:          telephony.NewAccessTokenIssuer(cfg.Twilio),
		DefaultIdentity: cfg.Twilio.DefaultIdentity,
	}
	voiceHandler := telephony.VoiceHandler{Twilio: cfg.Twilio}

	r.POST("/token", tokenHandler.Handle)
	r.POST("/voice", voiceHandler.Handle)
}
