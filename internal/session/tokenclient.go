package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TokenSource fetches a signed access credential for an identity.
type TokenSource interface {
	Fetch(ctx context.Context, identity string) (string, error)
}

// HTTPTokenSource fetches credentials from the backend's /token endpoint.
type HTTPTokenSource struct {
	Endpoint string

	// Client defaults to http.DefaultClient.
	Client *http.Client
}

type tokenResponse struct {
	Token    string `json:"token"`
	Identity string `json:"identity"`
	Error    string `json:"error"`
}

func (s *HTTPTokenSource) Fetch(ctx context.Context, identity string) (string, error) {
	payload, err := json.Marshal(map[string]string{"identity": identity})
	if err != nil {
		return "", &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed tokenResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if msg == "" {
			msg = fmt.Sprintf("token request failed (%d)", resp.StatusCode)
		}
		return "", &TransportError{Status: resp.StatusCode, Message: msg}
	}
	if parsed.Token == "" {
		return "", &TransportError{Status: resp.StatusCode, Message: "token response missing token"}
	}
	return parsed.Token, nil
}
