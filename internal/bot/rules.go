package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/anchal00/campbot/internal/logger"
	"github.com/anchal00/campbot/internal/state"
)

type event struct {
	user    state.UserID
	text    string
	session *state.Session
	// log carries the user and the state the event arrived in.
	log logger.Logger
}

type handler func(b *Bot, ctx context.Context, ev *event) Reply

// rule fires when the session is in one of its states (any state when the
// list is empty) and match accepts the text.
type rule struct {
	name   string
	states []state.State
	match  func(text string) bool
	handle handler
}

func (r rule) applies(ev *event) bool {
	if len(r.states) > 0 && !containsState(r.states, ev.session.State) {
		return false
	}
	return r.match(ev.text)
}

func containsState(states []state.State, s state.State) bool {
	for _, candidate := range states {
		if candidate == s {
			return true
		}
	}
	return false
}

// Menu commands are ignored while the user is typing free text.
var menuStates = []state.State{state.Idle, state.SelectingGoal, state.SelectingAge, state.WaitingCommentChoice}

// rules in priority order: back override, state handlers, menu commands,
// then the rating reply.
var rules = []rule{
	{"back", nil, isToken(TokenBack), (*Bot).handleBack},

	{"goal", []state.State{state.SelectingGoal}, goalTokens.Contains, (*Bot).handleGoal},
	{"age", []state.State{state.SelectingAge}, ageTokens.Contains, (*Bot).handleAge},
	{"comment_yes", []state.State{state.WaitingCommentChoice}, isToken(TokenYes), (*Bot).handleCommentYes},
	{"comment_no", []state.State{state.WaitingCommentChoice}, isToken(TokenNo), (*Bot).handleCommentNo},
	{"comment", []state.State{state.AddingComment}, anyText, (*Bot).handleComment},
	{"submission", []state.State{state.AddingGame}, anyText, (*Bot).handleSubmission},

	{"start", menuStates, isToken(CommandStart), (*Bot).handleStart},
	{"find_game", menuStates, isToken(TokenFindGame, CommandFindGame), (*Bot).handleFindGame},
	{"add_game", menuStates, isToken(TokenAddGame, CommandAddGame), (*Bot).handleAddGame},
	{"view_game", menuStates, isViewGame, (*Bot).handleViewGame},

	{"rating", []state.State{state.Idle}, mentionsRating, (*Bot).handleRating},
}

var fallback = rule{name: "fallback", handle: (*Bot).handleUnknown}

func route(ev *event) rule {
	for _, r := range rules {
		if r.applies(ev) {
			return r
		}
	}
	return fallback
}

func isToken(tokens ...string) func(string) bool {
	return func(text string) bool {
		for _, t := range tokens {
			if text == t {
				return true
			}
		}
		return false
	}
}

func anyText(string) bool { return true }

func isViewGame(text string) bool {
	_, ok := parseGameCommand(text)
	return ok || strings.HasPrefix(text, CommandGame+"_") || strings.HasPrefix(text, CommandGame+" ")
}

// parseGameCommand reads "/game_<id>" or "/game <id>".
func parseGameCommand(text string) (int64, bool) {
	rest, found := strings.CutPrefix(text, CommandGame)
	if !found || rest == "" || (rest[0] != '_' && rest[0] != ' ') {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rest[1:]), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func mentionsRating(text string) bool {
	return strings.ContainsAny(text, "12345")
}

// parseRating accepts a reply whose first word is a number from 1 to 5.
func parseRating(text string) (int, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	rating, err := strconv.Atoi(fields[0])
	if err != nil || rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}
