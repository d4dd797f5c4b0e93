package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHeadersFor_NoListIsWildcard(t *testing.T) {
	p := NewPolicy(nil)
	for _, origin := range []string{"", "https://a.example", "https://evil.example"} {
		h := p.HeadersFor(origin)
		if h.AllowOrigin != "*" {
			t.Fatalf("origin %q: expected *, got %q", origin, h.AllowOrigin)
		}
	}
}

func TestHeadersFor_EchoesAllowedOrigin(t *testing.T) {
	p := NewPolicy([]string{"https://a.example", "https://b.example"})
	h := p.HeadersFor("https://b.example")
	if h.AllowOrigin != "https://b.example" {
		t.Fatalf("expected echo of request origin, got %q", h.AllowOrigin)
	}
}

func TestHeadersFor_UnknownOriginFallsBackToFirstEntry(t *testing.T) {
	p := NewPolicy([]string{"https://a.example"})
	h := p.HeadersFor("https://evil.example")
	if h.AllowOrigin != "https://a.example" {
		t.Fatalf("expected first configured entry, got %q", h.AllowOrigin)
	}
}

func TestHeadersFor_WildcardEntryAlwaysWildcard(t *testing.T) {
	p := NewPolicy([]string{"*"})
	if h := p.HeadersFor("https://a.example"); h.AllowOrigin != "*" {
		t.Fatalf("expected *, got %q", h.AllowOrigin)
	}
}

func TestHeadersFor_AbsentRequestOriginIsWildcard(t *testing.T) {
	p := NewPolicy([]string{"https://a.example"})
	if h := p.HeadersFor(""); h.AllowOrigin != "*" {
		t.Fatalf("expected * for absent request origin, got %q", h.AllowOrigin)
	}
}

func TestHeadersFor_StaticHeaderValues(t *testing.T) {
	h := NewPolicy(nil).HeadersFor("")
	if h.AllowHeaders != "Content-Type" {
		t.Fatalf("expected Content-Type, got %q", h.AllowHeaders)
	}
	if h.AllowMethods != "POST, OPTIONS" {
		t.Fatalf("expected POST, OPTIONS, got %q", h.AllowMethods)
	}
}

func TestMiddleware_PreflightShortCircuits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(NewPolicy([]string{"https://a.example"})))

	reached := false
	r.POST("/token", func(c *gin.Context) { reached = true })
	r.OPTIONS("/token", func(c *gin.Context) { reached = true })

	req := httptest.NewRequest(http.MethodOptions, "/token", nil)
	req.Header.Set("Origin", "https://a.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if reached {
		t.Fatalf("pre-flight must not reach handlers")
	}
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://a.example" {
		t.Fatalf("expected echoed origin, got %q", got)
	}
}
