package db

import "database/sql"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Goal and age vocabularies offered on the keyboards. Stored values are free
// text because submissions are not validated against them.
var (
	Goals = []string{"Intro", "Active", "Bonding", "Icebreaker-scan", "Ambient"}
	Ages  = []string{"7-9", "10-12", "13-15", "16+", "All"}
)

// AgeAll matches every age bracket in a query.
const AgeAll = "All"

type Game struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Goal        string `db:"goal"`
	Age         string `db:"age"`
	Prep        string `db:"prep"`
	Rules       string `db:"rules"`
	Instruction string `db:"instruction"`
	RatingSum   int64  `db:"rating_sum"`
	RatingCount int64  `db:"rating_count"`
	PlaysCount  int64  `db:"plays_count"`
	Status      Status `db:"status"`
}

// Average is rating_sum / rating_count, or 0 for a game nobody rated.
func (g Game) Average() float64 {
	if g.RatingCount <= 0 {
		return 0
	}
	return float64(g.RatingSum) / float64(g.RatingCount)
}

type NewGame struct {
	Name        string
	Description string
	Goal        string
	Age         string
	Prep        string
	Rules       string
	Instruction string
}

type GameDetail struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Prep        string `db:"prep"`
	Rules       string `db:"rules"`
	Instruction string `db:"instruction"`
	RatingSum   int64  `db:"rating_sum"`
	RatingCount int64  `db:"rating_count"`
}

type Review struct {
	ID        int64          `db:"id"`
	GameID    int64          `db:"game_id"`
	UserID    int64          `db:"user_id"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	Moderated bool           `db:"moderated"`
}
