package engine

const DefaultRosterSize = 14

// NewState returns the room-start state: round 1, cursor at draft order 1,
// nothing nominated.
func NewState() State {
	return State{
		Phase:          PhaseIdle,
		Round:          1,
		NominatorOrder: 1,
		Rules:          Rules{RosterSize: DefaultRosterSize, MinBid: 1},
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
