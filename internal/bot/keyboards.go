package bot

import (
	"strconv"

	"github.com/anchal00/campbot/internal/db"

	"github.com/hashicorp/go-set/v3"
)

// Tokens the keyboards send back verbatim.
const (
	TokenBack     = "⬅️ Back"
	TokenFindGame = "🔍 Find game"
	TokenAddGame  = "✏ Add game"
	TokenYes      = "Yes"
	TokenNo       = "No"

	CommandStart    = "/start"
	CommandFindGame = "/find"
	CommandAddGame  = "/add"
	CommandGame     = "/game"
)

const ParseModeHTML = "HTML"

var (
	goalTokens = set.From(db.Goals)
	ageTokens  = set.From(db.Ages)
)

// Reply is one outbound message. Keyboard rows are offered as reply buttons.
type Reply struct {
	Text      string     `json:"text"`
	Keyboard  [][]string `json:"keyboard,omitempty"`
	ParseMode string     `json:"parse_mode,omitempty"`
}

// layout spreads buttons over rows of the given widths. The last width
// repeats for whatever is left.
func layout(buttons []string, widths ...int) [][]string {
	rows := [][]string{}
	for i := 0; len(buttons) > 0; i++ {
		w := widths[min(i, len(widths)-1)]
		w = min(w, len(buttons))
		rows = append(rows, buttons[:w])
		buttons = buttons[w:]
	}
	return rows
}

func withBack(buttons []string) []string {
	out := make([]string, 0, len(buttons)+1)
	out = append(out, buttons...)
	return append(out, TokenBack)
}

func mainMenu() [][]string {
	return [][]string{{TokenFindGame, TokenAddGame}}
}

func goalKeyboard() [][]string {
	return layout(withBack(db.Goals), 2, 2, 1)
}

func ageKeyboard() [][]string {
	return layout(withBack(db.Ages), 2, 2, 1)
}

func ratingKeyboard() [][]string {
	ratings := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		ratings = append(ratings, strconv.Itoa(i))
	}
	return layout(withBack(ratings), 5, 1)
}

func yesNoKeyboard() [][]string {
	return [][]string{{TokenYes, TokenNo}}
}

func backKeyboard() [][]string {
	return [][]string{{TokenBack}}
}
