package engine

import (
	"errors"
	"time"
)

var ErrNotYourTurn = errors.New("not your turn to nominate")
var ErrInvalidBid = errors.New("bid must beat the current bid")
var ErrOverBudget = errors.New("bid exceeds max bid for team")
var ErrNoSelectedPlayer = errors.New("no player nominated")
var ErrStaleData = errors.New("team data is stale")
var ErrDraftComplete = errors.New("draft is complete")
var ErrCommitFailed = errors.New("sale commit failed")
var ErrBadPhase = errors.New("action not allowed in current phase")
var ErrUnknownTeam = errors.New("unknown team")
var ErrRosterFull = errors.New("team roster is full")
var ErrDuplicateOrder = errors.New("duplicate draft order")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseNominated      Phase = "nominated"
	PhaseBiddingOpen    Phase = "bidding_open"
	PhaseCountdownOnce  Phase = "countdown_once"
	PhaseCountdownTwice Phase = "countdown_twice"
	PhaseSold           Phase = "sold"
	PhaseDraftComplete  Phase = "draft_complete"
)

type PlayerRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

type Bid struct {
	TeamID     string    `json:"team_id"`
	BidderName string    `json:"bidder_name"`
	Amount     int       `json:"amount"`
	PlacedAt   time.Time `json:"placed_at"`
}

type Countdown struct {
	StartedAt   time.Time `json:"started_at"`
	TriggeredBy string    `json:"triggered_by"`
	Stage       Phase     `json:"stage"`
}

type Rules struct {
	RosterSize int `json:"roster_size"`
	MinBid     int `json:"min_bid"`
}

// State is the single authoritative value for one auction room. It is only
// ever mutated by Apply inside the room actor; everyone else sees copies.
type State struct {
	Phase          Phase      `json:"phase"`
	SelectedPlayer *PlayerRef `json:"selected_player,omitempty"`
	CurrentBid     *Bid       `json:"current_bid,omitempty"`
	Round          int        `json:"round"`
	NominatorOrder int        `json:"nominator_order"`
	Countdown      *Countdown `json:"countdown,omitempty"`
	History        []Bid      `json:"history,omitempty"`
	Rules          Rules      `json:"rules"`

	// TimerGen increments on every transition that schedules or invalidates
	// a countdown timer. A fired timer carrying an older generation is inert.
	TimerGen uint64 `json:"-"`
}

const historyCap = 10

type CommandType string

const (
	CmdSelectPlayer     CommandType = "SelectPlayer"
	CmdCancelSelection  CommandType = "CancelSelection"
	CmdPlaceBid         CommandType = "PlaceBid"
	CmdStartCountdown   CommandType = "StartCountdown"
	CmdCancelCountdown  CommandType = "CancelCountdown"
	CmdCountdownElapsed CommandType = "CountdownElapsed"
	CmdCommitSale       CommandType = "CommitSale"
)

type Command struct {
	Type      CommandType
	TeamID    string
	ActorName string
	Admin     bool
	Player    *PlayerRef
	Amount    int
	Gen       uint64 // CountdownElapsed only
	Now       time.Time
}

type EventType string

const (
	EvtPlayerNominated     EventType = "PlayerNominated"
	EvtNominationCancelled EventType = "NominationCancelled"
	EvtBidPlaced           EventType = "BidPlaced"
	EvtCountdownStarted    EventType = "CountdownStarted"
	EvtCountdownAdvanced   EventType = "CountdownAdvanced"
	EvtCountdownCancelled  EventType = "CountdownCancelled"
	EvtPlayerSold          EventType = "PlayerSold"
	EvtSaleCommitted       EventType = "SaleCommitted"
	EvtNominatorAdvanced   EventType = "NominatorAdvanced"
	EvtDraftCompleted      EventType = "DraftCompleted"
)

type Event struct {
	Type   EventType
	TeamID string
	Player *PlayerRef
	Amount int
	Round  int
	Order  int
	Stage  Phase
}

// Apply validates cmd against the current state and the latest team snapshots
// and returns the events plus the successor state. On any error the returned
// state is the input state, untouched. A stale CountdownElapsed returns no
// events, no error, and the unchanged state.
func Apply(s State, teams []TeamSnapshot, cmd Command) ([]Event, State, error) {
	if s.Phase == PhaseDraftComplete {
		return nil, s, ErrDraftComplete
	}

	newState := s

	switch cmd.Type {
	case CmdSelectPlayer:
		if s.Phase != PhaseIdle {
			return nil, s, ErrBadPhase
		}
		if cmd.Player == nil {
			return nil, s, ErrNoSelectedPlayer
		}
		nominator, err := CurrentNominator(s, teams)
		if err != nil {
			return nil, s, err
		}
		if !cmd.Admin && cmd.TeamID != nominator.TeamID {
			return nil, s, ErrNotYourTurn
		}
		player := *cmd.Player
		newState.Phase = PhaseNominated
		newState.SelectedPlayer = &player
		return []Event{{Type: EvtPlayerNominated, TeamID: cmd.TeamID, Player: &player}}, newState, nil

	case CmdCancelSelection:
		if s.Phase != PhaseNominated {
			return nil, s, ErrBadPhase
		}
		nominator, err := CurrentNominator(s, teams)
		if err != nil {
			return nil, s, err
		}
		if !cmd.Admin && cmd.TeamID != nominator.TeamID {
			return nil, s, ErrNotYourTurn
		}
		player := s.SelectedPlayer
		newState.Phase = PhaseIdle
		newState.SelectedPlayer = nil
		return []Event{{Type: EvtNominationCancelled, TeamID: cmd.TeamID, Player: player}}, newState, nil

	case CmdPlaceBid:
		if err := ValidateBid(s, teams, cmd.TeamID, cmd.Amount); err != nil {
			return nil, s, err
		}
		bid := Bid{TeamID: cmd.TeamID, BidderName: cmd.ActorName, Amount: cmd.Amount, PlacedAt: cmd.Now}
		events := []Event{}
		if s.Countdown != nil {
			// A raise mid-countdown invalidates the pending timer.
			newState.Countdown = nil
			newState.TimerGen++
			events = append(events, Event{Type: EvtCountdownCancelled})
		}
		newState.Phase = PhaseBiddingOpen
		newState.CurrentBid = &bid
		newState.History = pushHistory(s.History, bid)
		events = append(events, Event{Type: EvtBidPlaced, TeamID: bid.TeamID, Amount: bid.Amount, Player: s.SelectedPlayer})
		return events, newState, nil

	case CmdStartCountdown:
		if s.Phase != PhaseBiddingOpen {
			return nil, s, ErrBadPhase
		}
		if s.CurrentBid == nil {
			return nil, s, ErrInvalidBid
		}
		newState.Phase = PhaseCountdownOnce
		newState.Countdown = &Countdown{StartedAt: cmd.Now, TriggeredBy: cmd.ActorName, Stage: PhaseCountdownOnce}
		newState.TimerGen++
		return []Event{{Type: EvtCountdownStarted, Stage: PhaseCountdownOnce}}, newState, nil

	case CmdCancelCountdown:
		if s.Phase != PhaseCountdownOnce && s.Phase != PhaseCountdownTwice {
			return nil, s, ErrBadPhase
		}
		newState.Phase = PhaseBiddingOpen
		newState.Countdown = nil
		newState.TimerGen++
		return []Event{{Type: EvtCountdownCancelled}}, newState, nil

	case CmdCountdownElapsed:
		// Guard at fire time: anything that touched the countdown since this
		// timer was scheduled makes the fire a no-op.
		if cmd.Gen != s.TimerGen {
			return nil, s, nil
		}
		switch s.Phase {
		case PhaseCountdownOnce:
			cd := *s.Countdown
			cd.Stage = PhaseCountdownTwice
			newState.Phase = PhaseCountdownTwice
			newState.Countdown = &cd
			newState.TimerGen++
			return []Event{{Type: EvtCountdownAdvanced, Stage: PhaseCountdownTwice}}, newState, nil
		case PhaseCountdownTwice:
			newState.Phase = PhaseSold
			newState.Countdown = nil
			newState.TimerGen++
			return []Event{{
				Type:   EvtPlayerSold,
				TeamID: s.CurrentBid.TeamID,
				Player: s.SelectedPlayer,
				Amount: s.CurrentBid.Amount,
			}}, newState, nil
		default:
			return nil, s, nil
		}

	case CmdCommitSale:
		if s.Phase != PhaseSold {
			return nil, s, ErrBadPhase
		}
		sold := Event{
			Type:   EvtSaleCommitted,
			TeamID: s.CurrentBid.TeamID,
			Player: s.SelectedPlayer,
			Amount: s.CurrentBid.Amount,
		}
		newState.SelectedPlayer = nil
		newState.CurrentBid = nil
		newState.History = nil
		advanced, err := AdvanceNominator(newState, teams)
		if errors.Is(err, ErrDraftComplete) {
			newState.Phase = PhaseDraftComplete
			return []Event{sold, {Type: EvtDraftCompleted, Round: newState.Round}}, newState, nil
		}
		if err != nil {
			return nil, s, err
		}
		newState = advanced
		newState.Phase = PhaseIdle
		return []Event{sold, {
			Type:  EvtNominatorAdvanced,
			Round: newState.Round,
			Order: newState.NominatorOrder,
		}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func pushHistory(history []Bid, bid Bid) []Bid {
	out := make([]Bid, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, bid)
	if len(out) > historyCap {
		out = out[len(out)-historyCap:]
	}
	return out
}
