// Package fn is the on-demand function deployment shape. It exposes the same
// token and voice contract as cmd/api through a provider-agnostic event
// model, so the core issuance/routing/CORS logic stays hosting-neutral.
package fn

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"browser-dialer/internal/config"
	"browser-dialer/internal/cors"
	"browser-dialer/internal/telephony"
)

// Event is one invocation of a hosted function.
type Event struct {
	HTTPMethod            string
	Headers               map[string]string
	QueryStringParameters map[string]string
	Body                  string
	IsBase64Encoded       bool
}

// Result is the function's HTTP response.
type Result struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Handlers binds the two function entry points to shared configuration.
type Handlers struct {
	twilio config.TwilioConfig
	policy cors.Policy
	issuer *telephony.AccessTokenIssuer
}

func NewHandlers(cfg config.Config) *Handlers {
	return &Handlers{
		twilio: cfg.Twilio,
		policy: cors.NewPolicy(cfg.CORS.AllowedOrigins),
		issuer: telephony.NewAccessTokenIssuer(cfg.Twilio),
	}
}

// Token issues an access credential. All responses carry CORS headers;
// pre-flight OPTIONS never reaches the issuer.
func (h *Handlers) Token(ev Event) Result {
	ch := h.policy.HeadersFor(originOf(ev))
	headers := map[string]string{
		"Access-Control-Allow-Origin":  ch.AllowOrigin,
		"Access-Control-Allow-Headers": ch.AllowHeaders,
		"Access-Control-Allow-Methods": ch.AllowMethods,
	}

	if ev.HTTPMethod == http.MethodOptions {
		return Result{StatusCode: http.StatusNoContent, Headers: headers}
	}
	if ev.HTTPMethod != http.MethodPost {
		return jsonResult(http.StatusMethodNotAllowed, headers, map[string]string{"error": "Method Not Allowed"})
	}

	var payload struct {
		Identity string `json:"identity"`
	}
	if body := strings.TrimSpace(ev.Body); body != "" {
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return jsonResult(http.StatusBadRequest, headers, map[string]string{"error": "Invalid JSON body"})
		}
	}

	identity := strings.TrimSpace(payload.Identity)
	if identity == "" {
		identity = h.twilio.DefaultIdentity
	}

	token, err := h.issuer.Issue(identity)
	if err != nil {
		return jsonResult(http.StatusInternalServerError, headers, map[string]string{"error": err.Error()})
	}

	headers["Content-Type"] = "application/json"
	return jsonResult(http.StatusOK, headers, map[string]string{"token": token, "identity": identity})
}

// Voice renders the routing document for an inbound leg.
func (h *Handlers) Voice(ev Event) Result {
	if ev.HTTPMethod != http.MethodPost {
		return textResult(http.StatusMethodNotAllowed, "Method Not Allowed")
	}

	if missing := h.twilio.Missing(); len(missing) > 0 {
		err := &telephony.ConfigError{Missing: missing}
		return textResult(http.StatusInternalServerError, err.Error())
	}

	raw := ev.Body
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return textResult(http.StatusBadRequest, "Invalid request body")
		}
		raw = string(decoded)
	}

	params, err := url.ParseQuery(raw)
	if err != nil {
		return textResult(http.StatusBadRequest, "Invalid request body")
	}

	to := params.Get("To")
	if to == "" {
		to = ev.QueryStringParameters["To"]
	}

	twiml, err := telephony.BuildVoiceTwiML(to, h.twilio.CallerID)
	if err != nil {
		return textResult(http.StatusInternalServerError, "Failed to build voice response")
	}

	return Result{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "text/xml"},
		Body:       twiml,
	}
}

func originOf(ev Event) string {
	if o := ev.Headers["origin"]; o != "" {
		return o
	}
	return ev.Headers["Origin"]
}

func jsonResult(status int, headers map[string]string, body any) Result {
	b, _ := json.Marshal(body)
	return Result{StatusCode: status, Headers: headers, Body: string(b)}
}

func textResult(status int, body string) Result {
	return Result{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       body,
	}
}
