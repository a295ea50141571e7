package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"

	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

// liveKitTransport connects to a LiveKit room with the session token and
// publishes the acquired microphone track.
type liveKitTransport struct {
	logger *Logger.Logger
}

func NewLiveKitTransport(logger *Logger.Logger) Transport {
	return &liveKitTransport{logger: logger}
}

// Connect implements Transport.
func (t *liveKitTransport) Connect(ctx context.Context, params ConnectParams, track LocalAudioTrack, events Events) (Conn, error) {
	local, ok := track.(webrtc.TrackLocal)
	if !ok {
		return nil, fmt.Errorf("local track %T is not publishable", track)
	}

	callback := &lksdk.RoomCallback{
		OnDisconnected: func() {
			if events.OnDisconnected != nil {
				events.OnDisconnected(nil)
			}
		},
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackSubscribed: func(remote *webrtc.TrackRemote, pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
				if remote.Kind() != webrtc.RTPCodecTypeAudio {
					return
				}
				if events.OnRemoteAudioTrack != nil {
					events.OnRemoteAudioTrack(liveKitRemoteTrack{pub: pub})
				}
			},
		},
	}

	room, err := lksdk.ConnectToRoomWithToken(params.URL, params.Token, callback, lksdk.WithAutoSubscribe(true))
	if err != nil {
		return nil, err
	}

	pub, err := room.LocalParticipant.PublishTrack(local, &lksdk.TrackPublicationOptions{
		Name:   "microphone",
		Source: livekit.TrackSource_MICROPHONE,
	})
	if err != nil {
		room.Disconnect()
		return nil, err
	}

	t.logger.Debugf("published microphone track to room %s", params.RoomName)
	return &liveKitConn{room: room, pub: pub}, nil
}

type liveKitConn struct {
	room *lksdk.Room
	pub  *lksdk.LocalTrackPublication
}

func (c *liveKitConn) SetMicEnabled(enabled bool) error {
	c.pub.SetMuted(!enabled)
	return nil
}

func (c *liveKitConn) Disconnect() {
	c.room.Disconnect()
}

type liveKitRemoteTrack struct {
	pub *lksdk.RemoteTrackPublication
}

func (t liveKitRemoteTrack) SID() string { return t.pub.SID() }

// SampleMicrophone produces an opus sample track suitable for publishing to
// LiveKit. Capture hardware access belongs to the embedding application; a
// track with no writer publishes silence.
type SampleMicrophone struct {
	mu    sync.Mutex
	track *lksdk.LocalSampleTrack
}

func NewSampleMicrophone() *SampleMicrophone {
	return &SampleMicrophone{}
}

func (m *SampleMicrophone) Available() bool { return true }

// Acquire implements Microphone.
func (m *SampleMicrophone) Acquire(ctx context.Context) (LocalAudioTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, err := lksdk.NewLocalSampleTrack(webrtc.RTPCodecCapability{
		MimeType:  webrtc.MimeTypeOpus,
		ClockRate: 48000,
		Channels:  1,
	})
	if err != nil {
		return nil, err
	}
	m.track = track
	return track, nil
}

func (m *SampleMicrophone) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track = nil
}

// Track returns the acquired sample track so the embedding application can
// feed it captured audio.
func (m *SampleMicrophone) Track() *lksdk.LocalSampleTrack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.track
}

// TrackSink is the default AudioSink: it holds the single current remote
// track, replacing any previous one.
type TrackSink struct {
	mu      sync.Mutex
	current RemoteTrack
	logger  *Logger.Logger
}

func NewTrackSink(logger *Logger.Logger) *TrackSink {
	return &TrackSink{logger: logger}
}

// Attach implements AudioSink.
func (s *TrackSink) Attach(track RemoteTrack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = track
	s.logger.Debugf("audio sink attached to track %s", track.SID())
	return nil
}

// Detach implements AudioSink.
func (s *TrackSink) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns the attached track, if any.
func (s *TrackSink) Current() RemoteTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
