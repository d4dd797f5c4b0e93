package telephony

import (
	"fmt"
	"time"

	"browser-dialer/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenIssuer signs short-lived Twilio voice access tokens.
//
// The token is an HS256 JWT in Twilio's first-person-auth format: issuer is
// the API key, subject is the account SID, and a single grants claim scopes
// the identity to one outgoing TwiML application plus inbound acceptance.
// The API secret never leaves this package and is never logged.
type AccessTokenIssuer struct {
	cfg config.TwilioConfig

	// now is injectable for deterministic jti/exp in tests.
	now func() time.Time
}

func NewAccessTokenIssuer(cfg config.TwilioConfig) *AccessTokenIssuer {
	return &AccessTokenIssuer{cfg: cfg, now: time.Now}
}

const accessTokenContentType = "twilio-fpa;v=1"

type outgoingGrant struct {
	ApplicationSID string `json:"application_sid"`
}

type incomingGrant struct {
	Allow bool `json:"allow"`
}

type voiceGrant struct {
	Outgoing outgoingGrant `json:"outgoing"`
	Incoming incomingGrant `json:"incoming"`
}

type tokenGrants struct {
	Identity string     `json:"identity"`
	Voice    voiceGrant `json:"voice"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Grants tokenGrants `json:"grants"`
}

// Issue signs an access token for the given identity.
//
// Identity is opaque caller input; no uniqueness or authentication check is
// performed here. Returns *ConfigError when any required provider setting is
// absent and *IssuanceError when signing fails.
func (i *AccessTokenIssuer) Issue(identity string) (string, error) {
	if missing := i.cfg.Missing(); len(missing) > 0 {
		return "", &ConfigError{Missing: missing}
	}

	now := i.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("%s-%d", i.cfg.APIKey, now.Unix()),
			Issuer:    i.cfg.APIKey,
			Subject:   i.cfg.AccountSID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TokenTTL)),
		},
		Grants: tokenGrants{
			Identity: identity,
			Voice: voiceGrant{
				Outgoing: outgoingGrant{ApplicationSID: i.cfg.TwiMLAppSID},
				Incoming: incomingGrant{Allow: true},
			},
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["cty"] = accessTokenContentType

	signed, err := t.SignedString([]byte(i.cfg.APISecret))
	if err != nil {
		return "", &IssuanceError{Err: err}
	}
	return signed, nil
}
