package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/hub"
	"auction-draft-server/internal/identity"
	"auction-draft-server/internal/room"
	"auction-draft-server/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 90 * time.Second // heartbeats arrive well inside this
)

func Handler(h *hub.Hub, idp identity.Provider, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		participant, err := idp.Resolve(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.ServerMessage, 16)
		clientID := uuid.NewString()

		rm.Inbox() <- room.Join{ClientID: clientID, Participant: participant, Outbox: out}
		// Transport-level close must still unbind, so Leave rides a defer.
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for frame := range out {
				payload, err := json.Marshal(frame)
				if err != nil {
					log.Error("marshal frame", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Disconnect without an explicit leave; defer unbinds.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Warn("dropping malformed frame", zap.String("client", clientID), zap.Error(err))
				writeError(r.Context(), conn, "BadMessage", "malformed json")
				continue
			}

			msg, ok := toRoomMsg(clientID, participant, cm)
			if !ok {
				log.Warn("dropping unknown frame kind", zap.String("kind", cm.Type))
				writeError(r.Context(), conn, "BadMessage", "unknown message kind")
				continue
			}
			if _, leaving := msg.(room.Leave); leaving {
				return
			}
			rm.Inbox() <- msg
		}
	}
}

// toRoomMsg maps a wire frame onto the room's closed message set. Identity
// comes from the verified token, never from the payload; only an admin may
// act for a team other than their own.
func toRoomMsg(clientID string, p identity.Participant, m types.ClientMessage) (room.Msg, bool) {
	actingTeam := p.TeamID
	if m.TeamID != "" && p.Admin {
		actingTeam = m.TeamID
	}

	base := engine.Command{
		TeamID:    actingTeam,
		ActorName: p.DisplayName,
		Admin:     p.Admin,
	}

	switch m.Type {
	case "join", "resync":
		return room.Resync{ClientID: clientID}, true
	case "leave":
		return room.Leave{ClientID: clientID}, true
	case "heartbeat":
		return room.Heartbeat{ClientID: clientID}, true
	case "select_player":
		if m.Player == nil {
			base.Type = engine.CmdCancelSelection
		} else {
			base.Type = engine.CmdSelectPlayer
			base.Player = m.Player
		}
		return room.FromClient{ClientID: clientID, Cmd: base}, true
	case "new_bid":
		base.Type = engine.CmdPlaceBid
		base.Amount = m.Amount
		return room.FromClient{ClientID: clientID, Cmd: base}, true
	case "start_countdown":
		base.Type = engine.CmdStartCountdown
		return room.FromClient{ClientID: clientID, Cmd: base}, true
	case "cancel_countdown":
		base.Type = engine.CmdCancelCountdown
		return room.FromClient{ClientID: clientID, Cmd: base}, true
	default:
		return nil, false
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, code, message string) {
	payload, _ := json.Marshal(types.ServerMessage{
		Type:  "error",
		Error: &types.ErrorInfo{Code: code, Message: message},
	})
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(writeCtx, websocket.MessageText, payload)
}
