package session

// EventType identifies a provider SDK lifecycle callback.
type EventType string

const (
	// EventRegistered fires when the softphone endpoint is registered and
	// able to place or receive calls.
	EventRegistered EventType = "registered"
	// EventUnregistered is observational only; no status change is mandated.
	EventUnregistered EventType = "unregistered"
	// EventError carries a device or connection failure. It may fire in any
	// state, independent of user actions.
	EventError EventType = "error"
	// EventIncoming announces a remote-initiated call leg.
	EventIncoming EventType = "incoming"
	// EventCancel fires when the remote caller hangs up before accept.
	EventCancel EventType = "cancel"
	// EventConnect fires when a leg is established, inbound or outbound.
	EventConnect EventType = "connect"
	// EventDisconnect fires when the active leg ends.
	EventDisconnect EventType = "disconnect"
)

// Event is the single internal representation of SDK callbacks. Device
// implementations translate their callback surface into Events on the
// session's channel; the session never registers raw SDK callbacks.
type Event struct {
	Type EventType

	// Conn carries the call leg for incoming and connect events.
	Conn Connection

	// Err carries the failure for error events.
	Err error
}
