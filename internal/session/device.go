package session

import "context"

// ConnectParams are passed to the provider when requesting an outbound leg.
// They surface server-side as the voice webhook's form fields.
type ConnectParams struct {
	To       string
	Identity string
}

// Connection is one active call leg, inbound or outbound.
type Connection interface {
	// Disconnect ends this leg. The session observes the result through a
	// subsequent disconnect event, not through this call.
	Disconnect()

	// Parameters exposes provider metadata for the leg (call SID etc).
	Parameters() map[string]string
}

// Device is the registered softphone endpoint. A session owns at most one
// live device; it is never recreated implicitly while one is live.
type Device interface {
	// Connect requests an outbound leg and blocks until the provider
	// accepts or rejects the request.
	Connect(ctx context.Context, params ConnectParams) (Connection, error)

	// DisconnectAll drops every leg the device knows about. Used as
	// defensive cleanup on manual hangup.
	DisconnectAll()

	// Destroy tears the endpoint down so the provider can unregister it.
	Destroy()
}

// DeviceFactory builds a device from a signed access token. The factory must
// deliver all SDK lifecycle callbacks as Events on the given channel.
type DeviceFactory func(token string, events chan<- Event) (Device, error)
