package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplab/fsm"

	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

// Connection states.
const (
	StateUnconnected   = "unconnected"
	StateRequestingMic = "requesting_mic"
	StateConnecting    = "connecting"
	StateConnected     = "connected"
	StateDisconnected  = "disconnected"
	StateError         = "error"
)

const (
	evRequestMic = "request_mic"
	evDial       = "dial"
	evEstablish  = "establish"
	evHangUp     = "hang_up"
	evFail       = "fail"
)

// Machine drives one voice connection: microphone acquisition, transport
// connect, remote-track playback, mute, and teardown. Disconnected and
// error are terminal; a new session needs a new Machine.
//
// Transport events may arrive at any time after dialing begins, including
// interleaved with a user-initiated HangUp; whoever loses the race still
// ends with everything released.
type Machine struct {
	mu        sync.Mutex
	sm        *fsm.FSM
	mic       Microphone
	transport Transport
	sink      AudioSink
	conn      Conn
	muted     bool
	lastErr   error
	onHangUp  func()
	logger    *Logger.Logger
}

// NewMachine wires a machine over the given collaborators. onHangUp, if
// non-nil, is invoked once after a hang-up so the owner can run its
// end-of-session cleanup.
func NewMachine(mic Microphone, transport Transport, sink AudioSink, onHangUp func(), logger *Logger.Logger) *Machine {
	return &Machine{
		sm: fsm.NewFSM(
			StateUnconnected,
			fsm.Events{
				{Name: evRequestMic, Src: []string{StateUnconnected}, Dst: StateRequestingMic},
				{Name: evDial, Src: []string{StateRequestingMic}, Dst: StateConnecting},
				{Name: evEstablish, Src: []string{StateConnecting}, Dst: StateConnected},
				{Name: evHangUp, Src: []string{StateRequestingMic, StateConnecting, StateConnected}, Dst: StateDisconnected},
				{Name: evFail, Src: []string{StateUnconnected, StateRequestingMic, StateConnecting, StateConnected}, Dst: StateError},
			},
			fsm.Callbacks{},
		),
		mic:       mic,
		transport: transport,
		sink:      sink,
		onHangUp:  onHangUp,
		logger:    logger,
	}
}

func (m *Machine) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sm.Current()
}

// Err returns the error that moved the machine into the error state.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Machine) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Start runs the connect sequence: microphone, then transport, then local
// publishing. It blocks until connected or failed; run it in its own
// goroutine to keep the caller responsive. Failures are terminal for this
// machine — there is no automatic retry or reconnect.
func (m *Machine) Start(ctx context.Context, params ConnectParams) error {
	m.mu.Lock()
	if !m.sm.Is(StateUnconnected) {
		cur := m.sm.Current()
		m.mu.Unlock()
		return fmt.Errorf("voice connection already started (state %s)", cur)
	}
	if !m.mic.Available() {
		err := faults.Permissionf("microphone capture is unavailable in this context")
		m.failLocked(err)
		m.mu.Unlock()
		return err
	}
	_ = m.sm.Event(ctx, evRequestMic)
	m.mu.Unlock()

	track, err := m.mic.Acquire(ctx)
	if err != nil {
		err = faults.Permissionf("microphone access denied: %v", err)
		m.mu.Lock()
		m.failLocked(err)
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	if !m.sm.Is(StateRequestingMic) {
		// Hung up while the permission prompt was pending.
		m.mic.Release()
		m.mu.Unlock()
		return nil
	}
	_ = m.sm.Event(ctx, evDial)
	m.mu.Unlock()

	conn, err := m.transport.Connect(ctx, params, track, Events{
		OnRemoteAudioTrack: m.handleRemoteTrack,
		OnDisconnected:     m.handleTransportDown,
	})
	if err != nil {
		err = faults.Connectionf("connect to room %s failed: %v", params.RoomName, err)
		m.mu.Lock()
		m.failLocked(err)
		m.mic.Release()
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	if !m.sm.Is(StateConnecting) {
		// HangUp won the race against the in-flight connect: the fresh
		// connection must not be left dangling.
		m.mu.Unlock()
		conn.Disconnect()
		m.mic.Release()
		return nil
	}
	m.conn = conn
	_ = m.sm.Event(ctx, evEstablish)
	m.mu.Unlock()

	if err := conn.SetMicEnabled(true); err != nil {
		err = faults.Connectionf("enabling microphone publishing failed: %v", err)
		m.mu.Lock()
		downConn := m.failLocked(err)
		m.mic.Release()
		m.mu.Unlock()
		if downConn != nil {
			downConn.Disconnect()
		}
		return err
	}

	m.logger.Infof("voice connected to room %s", params.RoomName)
	return nil
}

// ToggleMute flips local microphone publishing. Rejected outside the
// connected state.
func (m *Machine) ToggleMute() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sm.Is(StateConnected) {
		return fmt.Errorf("mute toggle requires an active connection (state %s)", m.sm.Current())
	}
	m.muted = !m.muted
	return m.conn.SetMicEnabled(!m.muted)
}

// HangUp closes the connection and releases the sink and microphone. A
// no-op outside the requesting/connecting/connected states, so calling it
// twice is safe.
func (m *Machine) HangUp() {
	m.mu.Lock()
	if err := m.sm.Event(context.Background(), evHangUp); err != nil {
		m.mu.Unlock()
		return
	}
	conn := m.conn
	m.conn = nil
	m.sink.Detach()
	m.mic.Release()
	cb := m.onHangUp
	m.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	if cb != nil {
		cb()
	}
	m.logger.Info("voice connection hung up")
}

// Close is the mandatory teardown hook for when the owning context goes
// away: whatever state the machine is in, the connection is closed and
// resources are released. Idempotent.
func (m *Machine) Close() {
	m.HangUp()

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.sink.Detach()
	m.mic.Release()
	m.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
}

// handleRemoteTrack attaches the agent's audio for playback, replacing any
// previous attachment. Tracks arriving after teardown are ignored.
func (m *Machine) handleRemoteTrack(track RemoteTrack) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sm.Is(StateConnecting) && !m.sm.Is(StateConnected) {
		return
	}
	m.sink.Detach()
	if err := m.sink.Attach(track); err != nil {
		m.logger.Errorf("attaching remote track %s: %v", track.SID(), err)
		return
	}
	m.logger.Debugf("remote audio track %s attached", track.SID())
}

// handleTransportDown reacts to a connection-level drop reported by the
// transport after dialing began.
func (m *Machine) handleTransportDown(err error) {
	m.mu.Lock()
	if !m.sm.Is(StateConnecting) && !m.sm.Is(StateConnected) {
		m.mu.Unlock()
		return
	}
	var conn Conn
	if err != nil {
		conn = m.failLocked(faults.Connectionf("transport dropped: %v", err))
	} else {
		_ = m.sm.Event(context.Background(), evHangUp)
		m.sink.Detach()
		conn = m.conn
		m.conn = nil
	}
	m.mic.Release()
	m.mu.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
}

// failLocked records the terminal error and detaches the sink. The held
// connection, if any, is returned so the caller can close it outside the
// lock — the transport may deliver callbacks synchronously from Disconnect.
// Caller holds m.mu.
func (m *Machine) failLocked(err error) Conn {
	m.lastErr = err
	_ = m.sm.Event(context.Background(), evFail)
	m.sink.Detach()
	conn := m.conn
	m.conn = nil
	m.logger.Errorf("voice connection failed: %v", err)
	return conn
}
