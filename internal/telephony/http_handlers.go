package telephony

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"browser-dialer/internal/config"
	"browser-dialer/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenHandler serves POST /token for the long-running server shape.
//
// No business logic here beyond request decoding; issuance rules live in
// AccessTokenIssuer.
type TokenHandler struct {
	Issuer          *AccessTokenIssuer
	DefaultIdentity string
}

type tokenRequest struct {
	Identity string `json:"identity"`
}

func (h TokenHandler) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var req tokenRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}

	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		identity = h.DefaultIdentity
	}

	token, err := h.Issuer.Issue(identity)
	if err != nil {
		// Both config and issuance failures map to 500 with the error text;
		// neither carries secret material.
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			log.Warn("token issuance blocked by config", "missing", cfgErr.Missing)
		} else {
			log.Error("token issuance failed", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "identity": identity})
}

// VoiceHandler serves POST /voice: it converts the provider's voice webhook
// into a TwiML routing document for the inbound leg.
type VoiceHandler struct {
	Twilio config.TwilioConfig
}

func (h VoiceHandler) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	if missing := h.Twilio.Missing(); len(missing) > 0 {
		err := &ConfigError{Missing: missing}
		log.Warn("voice webhook blocked by config", "missing", missing)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Twilio posts application/x-www-form-urlencoded; To may also arrive as a
	// query parameter.
	to := c.PostForm("To")
	if to == "" {
		to = c.Query("To")
	}

	twiml, err := BuildVoiceTwiML(to, h.Twilio.CallerID)
	if err != nil {
		log.Error("twiml render failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml failed"})
		return
	}

	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, twiml)
}
