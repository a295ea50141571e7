package voice

import "context"

// ConnectParams is the session bundle issued by the server: the transport
// endpoint plus the room-scoped token.
type ConnectParams struct {
	URL      string
	RoomName string
	Token    string
}

// RemoteTrack is an opaque handle to a remote participant's audio track.
type RemoteTrack interface {
	SID() string
}

// LocalAudioTrack is an opaque microphone track handle. The transport knows
// how to publish the concrete type its Microphone produced.
type LocalAudioTrack any

// Microphone models the runtime's audio capture capability.
type Microphone interface {
	// Available reports whether capture is possible in the current
	// execution context at all.
	Available() bool
	// Acquire requests capture access and returns the local track to
	// publish. Denial is returned as an error.
	Acquire(ctx context.Context) (LocalAudioTrack, error)
	// Release is safe to call at any time, including before Acquire and
	// repeatedly.
	Release()
}

// AudioSink receives the remote agent's audio for playback. At most one
// track is attached at a time; Detach on an empty sink is a no-op.
type AudioSink interface {
	Attach(track RemoteTrack) error
	Detach()
}

// Events are the transport's notifications back into the state machine.
// They may fire at any time after Connect begins.
type Events struct {
	OnRemoteAudioTrack func(RemoteTrack)
	OnDisconnected     func(error)
}

// Conn is an established real-time connection.
type Conn interface {
	SetMicEnabled(enabled bool) error
	Disconnect()
}

// Transport opens real-time connections. The production implementation is
// LiveKit-backed; tests substitute doubles.
type Transport interface {
	Connect(ctx context.Context, params ConnectParams, track LocalAudioTrack, events Events) (Conn, error)
}
