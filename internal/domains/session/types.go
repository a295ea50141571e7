package session

// Status tracks the server-side view of a demo session's voice channel.
type Status string

const (
	StatusCreated         Status = "created"
	StatusVoiceConnecting Status = "voice_connecting"
	StatusVoiceActive     Status = "voice_active"
	StatusEnded           Status = "ended"
)

// Session bundles the room identity, the signed access credential, and the
// transport endpoint a client needs to join one voice interaction. RoomName
// and Token are minted together; the token is only valid for that room.
type Session struct {
	RoomName string
	Token    string
	URL      string
	Status   Status
}
