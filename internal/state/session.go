package state

// UserID is the identity the messaging transport attaches to every event.
type UserID int64

type State string

const (
	Idle                 State = "idle"
	SelectingGoal        State = "selecting_goal"
	SelectingAge         State = "selecting_age"
	WaitingCommentChoice State = "waiting_comment_choice"
	AddingComment        State = "adding_comment"
	AddingGame           State = "adding_game"
)

// Session is the in-progress flow of one user. A user looking at a game is
// Idle with GameID set.
type Session struct {
	State    State  `json:"state"`
	Goal     string `json:"goal,omitempty"`
	Age      string `json:"age,omitempty"`
	GameID   int64  `json:"game_id,omitempty"`
	ReviewID int64  `json:"review_id,omitempty"`
}

func NewSession() *Session {
	return &Session{State: Idle}
}

// Clear drops every in-progress key and returns to Idle.
func (s *Session) Clear() {
	*s = Session{State: Idle}
}

// IsIdle reports whether there is nothing worth keeping in the session.
func (s *Session) IsIdle() bool {
	return *s == Session{State: Idle}
}
