package session

import (
	"context"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/quickfixlabs/voicedemo/internal/config"
	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

// identity every demo participant token is minted for.
const participantIdentity = "customer"

// RoomCreator is the slice of the LiveKit room service the broker uses.
// *lksdk.RoomServiceClient satisfies it.
type RoomCreator interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
}

// Broker creates a real-time audio room and mints a scoped, time-limited
// access token for a single participant.
type Broker struct {
	rooms     RoomCreator
	url       string
	apiKey    string
	apiSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    *Logger.Logger
}

func NewBroker(rooms RoomCreator, cfg config.LiveKitConfig, logger *Logger.Logger) *Broker {
	return &Broker{
		rooms:     rooms,
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		tokenTTL:  time.Duration(cfg.TokenTTLHours) * time.Hour,
		now:       time.Now,
		logger:    logger,
	}
}

// CreateSession creates a fresh room and a matching join token.
//
// Room names derive from a nanosecond timestamp, which is unique within this
// process's practical timeframe; sub-millisecond concurrent collisions are
// accepted, not hardened against. No cleanup is scheduled: rooms are left to
// the provider's own garbage collection.
func (b *Broker) CreateSession(ctx context.Context) (*Session, error) {
	if b.url == "" || b.apiKey == "" || b.apiSecret == "" {
		return nil, faults.Configurationf("livekit url/api key/api secret are not configured")
	}

	roomName := fmt.Sprintf("demo-%d", b.now().UnixNano())

	if _, err := b.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{Name: roomName}); err != nil {
		// Surface the provider's status/message verbatim for diagnosis.
		return nil, faults.Upstreamf("room creation failed: %v", err)
	}

	token, err := b.mintToken(roomName)
	if err != nil {
		return nil, err
	}

	b.logger.Infof("created room %s with %s token", roomName, b.tokenTTL)
	return &Session{
		RoomName: roomName,
		Token:    token,
		URL:      b.url,
		Status:   StatusCreated,
	}, nil
}

// mintToken signs a credential scoped to exactly one identity, one room, and
// audio join/publish/subscribe, expiring tokenTTL from issuance.
func (b *Broker) mintToken(roomName string) (string, error) {
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomName,
	}
	grant.SetCanPublish(true)
	grant.SetCanSubscribe(true)

	at := auth.NewAccessToken(b.apiKey, b.apiSecret).
		SetIdentity(participantIdentity).
		SetVideoGrant(grant).
		SetValidFor(b.tokenTTL)

	jwt, err := at.ToJWT()
	if err != nil {
		return "", faults.Upstreamf("token signing failed: %v", err)
	}
	return jwt, nil
}

// NewRoomServiceClient wires the real LiveKit room service for the broker.
func NewRoomServiceClient(cfg config.LiveKitConfig) *lksdk.RoomServiceClient {
	return lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret)
}
