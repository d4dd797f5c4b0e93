package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by both deployment shapes.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App    AppConfig
	Twilio TwilioConfig
	CORS   CORSConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// TwilioConfig carries the provider credentials used to sign access tokens
// and build voice routing documents.
//
// The four account/key values are required for issuance but their absence is
// NOT a startup error: the process serves and reports the full missing list
// on each /token or /voice request instead, so a misconfigured deploy stays
// debuggable over HTTP.
type TwilioConfig struct {
	AccountSID  string
	APIKey      string
	APISecret   string
	TwiMLAppSID string

	// CallerID is the optional outbound caller-ID override attached to Dial.
	CallerID string

	// DefaultIdentity is used when a token request carries no identity.
	DefaultIdentity string

	// TokenTTL bounds the lifetime of issued access tokens.
	TokenTTL time.Duration
}

type CORSConfig struct {
	// AllowedOrigins is the parsed ALLOWED_ORIGIN list; nil means wildcard.
	AllowedOrigins []string
}

const (
	defaultPort     = 3001
	defaultIdentity = "dialer-user"
	defaultTokenTTL = time.Hour
)

// Required env keys for credential issuance, in reporting order.
var requiredTwilioEnv = []string{
	"TWILIO_ACCOUNT_SID",
	"TWILIO_API_KEY",
	"TWILIO_API_SECRET",
	"TWILIO_TWIML_APP_SID",
}

func Load() (Config, error) {
	c := Config{}
	var errs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	{
		n, err := optionalInt("APP_PORT", defaultPort)
		if err != nil {
			errs = append(errs, err)
		}
		c.App.Port = n
	}

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.APIKey = strings.TrimSpace(os.Getenv("TWILIO_API_KEY"))
	c.Twilio.APISecret = os.Getenv("TWILIO_API_SECRET")
	c.Twilio.TwiMLAppSID = strings.TrimSpace(os.Getenv("TWILIO_TWIML_APP_SID"))
	c.Twilio.CallerID = strings.TrimSpace(os.Getenv("TWILIO_CALLER_ID"))

	c.Twilio.DefaultIdentity = strings.TrimSpace(os.Getenv("TWILIO_DEFAULT_IDENTITY"))
	if c.Twilio.DefaultIdentity == "" {
		c.Twilio.DefaultIdentity = defaultIdentity
	}
	{
		d, err := optionalDuration("TWILIO_TOKEN_TTL", defaultTokenTTL)
		if err != nil {
			errs = append(errs, err)
		}
		c.Twilio.TokenTTL = d
	}

	c.CORS.AllowedOrigins = splitOrigins(os.Getenv("ALLOWED_ORIGIN"))

	if err := joinErrors(errs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.Twilio.TokenTTL <= 0 {
		errs = append(errs, errors.New("TWILIO_TOKEN_TTL must be positive"))
	}

	return joinErrors(errs)
}

// Missing reports every required provider env key that is absent, never just
// the first one. Empty means issuance preconditions are satisfied.
func (t TwilioConfig) Missing() []string {
	byKey := map[string]string{
		"TWILIO_ACCOUNT_SID":   t.AccountSID,
		"TWILIO_API_KEY":       t.APIKey,
		"TWILIO_API_SECRET":    t.APISecret,
		"TWILIO_TWIML_APP_SID": t.TwiMLAppSID,
	}
	var missing []string
	for _, key := range requiredTwilioEnv {
		if strings.TrimSpace(byKey[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func splitOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func optionalInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
