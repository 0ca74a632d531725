package types

// Client -> Server
// join: {} (identity comes from the ?token= query param, not the payload)
//
// leave: {}
//
// heartbeat: {}
//
// select_player:
//   player: { id, name, position } | null   // null cancels the nomination
//
// new_bid:
//   team_id: string (admin override only; defaults to your own team)
//   amount: number
//
// start_countdown: {}
//
// cancel_countdown: {}
//
// resync: {}

// Server -> Client
// init_state:
//   version: number
//   state: full AuctionState (phase, selected_player, current_bid, round,
//          nominator_order, countdown, history, rules)
//   participants: [{ id, display_name, team_id, admin, joined_at }]
//
// state: version + full AuctionState after every accepted mutation
//
// user_joined / user_left:
//   participant: { id, display_name, team_id, admin, joined_at }
//
// sale_committed:
//   sale: { player, team_id, amount }
//
// commit_failed: room-wide warning; sale + error carried
//
// error (targeted, never broadcast):
//   error: { code, message }
//   codes: NotYourTurn | InvalidBidAmount | OverBudget | NoSelectedPlayer |
//          RoomDataStale | DraftComplete | CommitFailed | UnknownTeam |
//          RosterFull | DataIntegrity | BadMessage | Rejected
