package telephony

import "strings"

// ConfigError reports every absent provider setting, never just the first.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "twilio environment variables not configured: " + strings.Join(e.Missing, ", ")
}

// IssuanceError wraps a token-signing failure from the JWT layer.
type IssuanceError struct {
	Err error
}

func (e *IssuanceError) Error() string {
	return "failed to create access token: " + e.Err.Error()
}

func (e *IssuanceError) Unwrap() error { return e.Err }
