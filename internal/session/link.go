package session

import (
	"net/url"
	"strings"
)

// NumberFromQuery extracts the destination pre-fill from a dialer deep-link,
// e.g. /?number=%2B14155551212.
func NumberFromQuery(q url.Values) string {
	return strings.TrimSpace(q.Get("number"))
}
