package hub

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/room"
	"auction-draft-server/internal/roster"
	"auction-draft-server/internal/store"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code  string
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type EnsureRoom struct {
	Code  string
	Reply chan *room.Room
}

// RoomEmpty is how a room reports that its last connection left with no sale
// pending; the hub disposes of it.
type RoomEmpty struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RoomEmpty) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Options carries everything a new room needs besides its code.
type Options struct {
	Store      store.TeamStore
	Clock      clockwork.Clock
	Log        *zap.Logger
	Rules      engine.Rules
	RoomConfig room.Config // delay/TTL template; Code, Cache etc. are filled per room
}

// Hub owns the registry of room actors keyed by room code. Like the rooms it
// is a single goroutine over a typed inbox, so creation and disposal race
// with nothing.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func NewHub(parent context.Context, opts Options) *Hub {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		log:    opts.Log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if rm := h.rooms[msg.Code]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := h.newRoom(msg.Code)
				h.rooms[msg.Code] = rm
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // May be nil

			case EnsureRoom:
				if rm := h.rooms[msg.Code]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := h.newRoom(msg.Code)
				h.rooms[msg.Code] = rm
				msg.Reply <- rm

			case RoomEmpty:
				if rm := h.rooms[msg.Code]; rm != nil {
					rm.Stop()
					delete(h.rooms, msg.Code)
					h.log.Info("disposed empty room", zap.String("room", msg.Code))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) newRoom(code string) *room.Room {
	initial := engine.NewState()
	if h.opts.Rules.RosterSize > 0 {
		initial.Rules = h.opts.Rules
	}
	cfg := h.opts.RoomConfig
	cfg.Code = code
	cfg.Initial = initial
	cfg.Cache = roster.NewCache(h.opts.Store, h.opts.Clock, h.opts.Log)
	cfg.Store = h.opts.Store
	cfg.Clock = h.opts.Clock
	cfg.Log = h.opts.Log
	cfg.OnEmpty = func(code string) {
		select {
		case h.inbox <- RoomEmpty{Code: code}:
		case <-h.ctx.Done():
		}
	}
	h.log.Info("created room", zap.String("room", code))
	return room.New(h.ctx, cfg)
}

func (h *Hub) shutdown() {
	for code, rm := range h.rooms {
		rm.Stop()
		delete(h.rooms, code)
	}
	h.cancel()
}
