package ws

// Inbound viewer commands. Everything else is rejected with an error message
// and otherwise ignored.
const (
	CommandPlayBall     = "play_ball"
	CommandResetGame    = "reset_game"
	CommandRequestState = "request_state"
)

type Command struct {
	Type string `json:"type"`
}
