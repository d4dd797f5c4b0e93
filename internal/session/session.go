package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Session statuses. One session exists per client runtime; error is
// recoverable on the next user action, not a terminal sink.
const (
	StatusIdle         = "idle"
	StatusInitializing = "initializing"
	StatusReady        = "ready"
	StatusConnecting   = "connecting"
	StatusOnCall       = "on-call"
	StatusIncoming     = "incoming"
	StatusError        = "error"
)

// Transition names for the status machine.
const (
	evInitialize = "initialize"
	evRegistered = "registered"
	evDial       = "dial"
	evConnect    = "connect"
	evDisconnect = "disconnect"
	evIncoming   = "incoming"
	evCancel     = "cancel"
	evFail       = "fail"
)

func newStatusFSM() *fsm.FSM {
	return fsm.NewFSM(
		StatusIdle,
		fsm.Events{
			{Name: evInitialize, Src: []string{StatusIdle, StatusError}, Dst: StatusInitializing},
			{Name: evRegistered, Src: []string{StatusInitializing, StatusError}, Dst: StatusReady},
			{Name: evDial, Src: []string{StatusInitializing, StatusReady, StatusError}, Dst: StatusConnecting},
			{Name: evConnect, Src: []string{StatusConnecting, StatusIncoming}, Dst: StatusOnCall},
			{Name: evDisconnect, Src: []string{StatusOnCall, StatusConnecting, StatusIncoming}, Dst: StatusReady},
			{Name: evIncoming, Src: []string{StatusReady}, Dst: StatusIncoming},
			{Name: evCancel, Src: []string{StatusIncoming}, Dst: StatusReady},
			{Name: evFail, Src: []string{StatusIdle, StatusInitializing, StatusReady, StatusConnecting, StatusOnCall, StatusIncoming}, Dst: StatusError},
		},
		nil,
	)
}

// Session owns the single live device and at most one live connection, and
// maps provider SDK events plus user actions into one coherent status.
//
// All mutation funnels through one mutex: user actions and the event pump
// serialize against each other, so a hangup issued while a dial is settling
// simply waits for it, then tears down through the disconnect-all path.
//
// Invariant: conn may be non-nil only while device is non-nil.
type Session struct {
	mu sync.Mutex

	id       string
	machine  *fsm.FSM
	identity string

	device Device
	conn   Connection

	// fetching guards the credential fetch so a concurrent call action can
	// never create a second device.
	fetching bool

	lastErr string

	tokens    TokenSource
	newDevice DeviceFactory

	events   chan Event
	activity *ActivityLog
	log      *slog.Logger
}

// Options configures a new Session.
type Options struct {
	// Identity defaults the caller identity sent with credential requests.
	Identity string

	// Tokens fetches signed credentials. Required.
	Tokens TokenSource

	// NewDevice builds the provider device from a credential. Required.
	NewDevice DeviceFactory

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// EventBuffer sizes the SDK event channel. Defaults to 16.
	EventBuffer int
}

func New(opts Options) (*Session, error) {
	if opts.Tokens == nil {
		return nil, errors.New("session: token source is required")
	}
	if opts.NewDevice == nil {
		return nil, errors.New("session: device factory is required")
	}
	buf := opts.EventBuffer
	if buf <= 0 {
		buf = 16
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		id:        uuid.NewString(),
		machine:   newStatusFSM(),
		identity:  opts.Identity,
		tokens:    opts.Tokens,
		newDevice: opts.NewDevice,
		events:    make(chan Event, buf),
		activity:  NewActivityLog(),
		log:       log,
	}, nil
}

func (s *Session) ID() string { return s.id }

// Events is the sink device implementations deliver SDK callbacks to.
func (s *Session) Events() chan<- Event { return s.events }

// Run consumes SDK events until ctx is cancelled. It is the only consumer of
// the event channel.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.dispatch(ev)
		}
	}
}

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Current()
}

func (s *Session) Connection() Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// DeviceActive reports whether a live device exists.
func (s *Session) DeviceActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device != nil
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// SetIdentity updates the caller identity used on the next credential fetch.
func (s *Session) SetIdentity(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

// Activity exposes the observational log, newest first.
func (s *Session) Activity() *ActivityLog { return s.activity }

// Call places an outbound call to destination.
//
// An empty destination is rejected locally without contacting the server or
// device. When no device exists, the session fetches a credential and builds
// one first; a second Call while that fetch is outstanding returns
// ErrCallInProgress. With a device present, the fetch is skipped entirely.
func (s *Session) Call(ctx context.Context, destination string) error {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		s.activity.Append("call rejected: no destination")
		return &ValidationError{Field: "destination", Reason: "enter a number to dial (E.164, e.g. +14155552671)"}
	}

	s.mu.Lock()
	if s.device == nil {
		if s.fetching {
			s.mu.Unlock()
			return ErrCallInProgress
		}
		s.fetching = true
		s.lastErr = ""
		_ = s.machine.Event(ctx, evInitialize)
		s.activity.Append("initializing device")
		identity := s.identity
		s.mu.Unlock()

		token, err := s.tokens.Fetch(ctx, identity)

		s.mu.Lock()
		s.fetching = false
		if err != nil {
			s.failLocked(ctx, messageOf(err, "failed to fetch access token"))
			s.mu.Unlock()
			return err
		}

		dev, err := s.newDevice(token, s.events)
		if err != nil {
			s.failLocked(ctx, messageOf(err, "failed to create device"))
			s.mu.Unlock()
			return &DeviceError{Err: err}
		}
		s.device = dev
		s.activity.Append("device created")
	}

	if err := s.machine.Event(ctx, evDial); err != nil {
		s.mu.Unlock()
		return ErrCallInProgress
	}
	s.lastErr = ""
	s.activity.Append("dialing " + destination)
	dev := s.device
	identity := s.identity
	s.mu.Unlock()

	conn, err := dev.Connect(ctx, ConnectParams{To: destination, Identity: identity})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(ctx, messageOf(err, "failed to start call"))
		return &DeviceError{Err: err}
	}
	s.conn = conn
	return nil
}

// Hangup disconnects the active leg and defensively drops anything the
// device still holds. It asserts no target state: the resulting disconnect
// event drives the transition back to ready.
func (s *Session) Hangup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Disconnect()
		s.activity.Append("call disconnected manually")
	}
	if s.device != nil {
		s.device.DisconnectAll()
	}
}

// Close tears down the device so the provider can unregister the endpoint.
// Skipping this leaks a registered endpoint.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device == nil {
		return
	}
	s.device.Destroy()
	s.device = nil
	s.conn = nil
	s.activity.Append("device destroyed")
}

func (s *Session) dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()

	switch ev.Type {
	case EventRegistered:
		if err := s.machine.Event(ctx, evRegistered); err != nil {
			s.activity.Append("device registered (status unchanged)")
			return
		}
		s.activity.Append("device registered")

	case EventUnregistered:
		s.activity.Append("device unregistered")

	case EventError:
		s.failLocked(ctx, messageOf(ev.Err, "unknown device error"))

	case EventIncoming:
		if err := s.machine.Event(ctx, evIncoming); err != nil {
			s.log.Warn("incoming event ignored", "session_id", s.id, "status", s.machine.Current())
			return
		}
		s.conn = ev.Conn
		s.activity.Append("incoming call received")

	case EventCancel:
		if err := s.machine.Event(ctx, evCancel); err != nil {
			return
		}
		s.conn = nil
		s.activity.Append("incoming call cancelled")

	case EventConnect:
		if err := s.machine.Event(ctx, evConnect); err != nil {
			s.log.Warn("connect event ignored", "session_id", s.id, "status", s.machine.Current())
			return
		}
		if ev.Conn != nil {
			s.conn = ev.Conn
		}
		s.activity.Append(fmt.Sprintf("call connected (%s)", callSID(s.conn)))

	case EventDisconnect:
		if err := s.machine.Event(ctx, evDisconnect); err != nil {
			return
		}
		s.conn = nil
		s.activity.Append("call disconnected")

	default:
		s.log.Warn("unknown device event", "session_id", s.id, "type", string(ev.Type))
	}
}

// failLocked records the error and forces status to error. Callers hold s.mu.
func (s *Session) failLocked(ctx context.Context, msg string) {
	s.lastErr = msg
	_ = s.machine.Event(ctx, evFail)
	s.activity.Append("error: " + msg)
	s.log.Error("session error", "session_id", s.id, "err", msg)
}

func messageOf(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

func callSID(conn Connection) string {
	if conn == nil {
		return "no SID"
	}
	if sid := conn.Parameters()["call_sid"]; sid != "" {
		return sid
	}
	return "no SID"
}
