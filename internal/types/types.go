package types

import (
	"time"

	"auction-draft-server/internal/engine"
)

// ClientMessage is the closed set of inbound frames. Kind discriminates;
// unknown kinds get an error frame back and are otherwise dropped.
type ClientMessage struct {
	Type   string            `json:"type"` // "join" | "leave" | "heartbeat" | "select_player" | "new_bid" | "start_countdown" | "cancel_countdown" | "resync"
	Player *engine.PlayerRef `json:"player,omitempty"` // select_player; null cancels the nomination
	TeamID string            `json:"team_id,omitempty"`
	Amount int               `json:"amount,omitempty"`
}

type ParticipantInfo struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	TeamID      string    `json:"team_id,omitempty"`
	Admin       bool      `json:"admin,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

type SaleInfo struct {
	Player *engine.PlayerRef `json:"player"`
	TeamID string            `json:"team_id"`
	Amount int               `json:"amount"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServerMessage is the outbound frame. State frames carry the full snapshot;
// a client that missed one resyncs with init_state rather than relying on
// reliable delivery.
type ServerMessage struct {
	Type         string            `json:"type"` // "init_state" | "state" | "user_joined" | "user_left" | "sale_committed" | "commit_failed" | "error"
	Version      int               `json:"version,omitempty"`
	State        *engine.State     `json:"state,omitempty"`
	Participants []ParticipantInfo `json:"participants,omitempty"`
	Participant  *ParticipantInfo  `json:"participant,omitempty"`
	Sale         *SaleInfo         `json:"sale,omitempty"`
	Error        *ErrorInfo        `json:"error,omitempty"`
}
