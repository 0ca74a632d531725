package room

import (
	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/identity"
	"auction-draft-server/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join binds a connection to the room. The outbox is where this client wants
// its frames; the join reply is an init_state frame on that channel.
type Join struct {
	ClientID    string
	Participant identity.Participant
	Outbox      chan types.ServerMessage
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Heartbeat struct{ ClientID string }

func (Heartbeat) isRoomMsg() {}

// Resync re-sends the full state snapshot to one client. Always safe.
type Resync struct{ ClientID string }

func (Resync) isRoomMsg() {}

type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

func (FromClient) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetView reflects internal state without data races. Test-only.
type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

type View struct {
	Version      int
	NumClients   int
	State        engine.State
	Participants []types.ParticipantInfo
}

// countdownFired re-enters the actor when a countdown stage timer elapses.
// Gen pins it to the generation it was scheduled under.
type countdownFired struct{ Gen uint64 }

func (countdownFired) isRoomMsg() {}

// sweepFired prunes participants whose heartbeat went silent.
type sweepFired struct{}

func (sweepFired) isRoomMsg() {}

// commitRetry re-attempts a sale commit the external store rejected.
type commitRetry struct{}

func (commitRetry) isRoomMsg() {}
