package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/parser"
	"github.com/anchal00/campbot/internal/recommend"
	"github.com/anchal00/campbot/internal/state"
)

func (b *Bot) handleStart(_ context.Context, ev *event) Reply {
	ev.session.Clear()
	return Reply{Text: "Hi! I'm a helper bot for camp counselors 🏕️", Keyboard: mainMenu()}
}

func (b *Bot) handleBack(_ context.Context, ev *event) Reply {
	ev.session.Clear()
	return Reply{Text: "Back to the main menu", Keyboard: mainMenu()}
}

func (b *Bot) handleFindGame(_ context.Context, ev *event) Reply {
	ev.session.Clear()
	ev.session.State = state.SelectingGoal
	return Reply{Text: "Choose the goal of the game:", Keyboard: goalKeyboard()}
}

func (b *Bot) handleGoal(_ context.Context, ev *event) Reply {
	ev.session.Goal = ev.text
	ev.session.State = state.SelectingAge
	return Reply{Text: "Choose the age group:", Keyboard: ageKeyboard()}
}

func (b *Bot) handleAge(ctx context.Context, ev *event) Reply {
	goal := ev.session.Goal
	age := ev.text
	if goal == "" {
		ev.session.Clear()
		b.countFailure(kindStateMismatch)
		return Reply{Text: "❌ Please choose a goal first", Keyboard: mainMenu()}
	}
	games, err := b.Db.ListApprovedGames(ctx, goal, age)
	if err != nil {
		return b.fail(ev, err)
	}
	ev.session.Clear()
	picks := recommend.Recommend(games, goal, age)
	ev.log.Info(fmt.Sprintf("Searched %s/%s: %d candidates", goal, age, len(games)))
	if len(picks) == 0 {
		return Reply{
			Text:     "No approved games for this goal and age yet. You can add one from the main menu!",
			Keyboard: mainMenu(),
		}
	}
	return Reply{Text: renderPicks(picks), Keyboard: mainMenu(), ParseMode: ParseModeHTML}
}

func (b *Bot) handleViewGame(ctx context.Context, ev *event) Reply {
	gameID, ok := parseGameCommand(ev.text)
	if !ok {
		return b.fail(ev, db.ErrNotFound)
	}
	detail, err := b.Db.GetGameDetail(ctx, gameID)
	if err != nil {
		return b.fail(ev, err)
	}
	ev.session.Clear()
	ev.session.GameID = detail.ID
	return Reply{Text: renderDetail(detail), Keyboard: ratingKeyboard(), ParseMode: ParseModeHTML}
}

func (b *Bot) handleRating(ctx context.Context, ev *event) Reply {
	if ev.session.GameID == 0 {
		return Reply{Text: "❌ Open a game from the search first", Keyboard: mainMenu()}
	}
	rating, ok := parseRating(ev.text)
	if !ok {
		return b.fail(ev, db.ErrInvalidRating)
	}
	reviewID, err := b.Db.RecordRating(ctx, ev.session.GameID, int64(ev.user), rating)
	if err != nil {
		return b.fail(ev, err)
	}
	b.Metrics.Ratings.Inc()
	ev.session.ReviewID = reviewID
	ev.session.State = state.WaitingCommentChoice
	return Reply{
		Text:     fmt.Sprintf("⭐ Thanks for rating it %d! Would you like to add a comment?", rating),
		Keyboard: yesNoKeyboard(),
	}
}

func (b *Bot) handleCommentYes(_ context.Context, ev *event) Reply {
	ev.session.State = state.AddingComment
	return Reply{Text: "Write your comment about the game:", Keyboard: backKeyboard()}
}

func (b *Bot) handleCommentNo(_ context.Context, ev *event) Reply {
	ev.session.Clear()
	return Reply{Text: "Back to the main menu", Keyboard: mainMenu()}
}

func (b *Bot) handleComment(ctx context.Context, ev *event) Reply {
	gameID, reviewID := ev.session.GameID, ev.session.ReviewID
	if gameID == 0 || reviewID == 0 {
		return b.fail(ev, db.ErrStateMismatch)
	}
	if ev.text == "" {
		return Reply{Text: "The comment is empty. Write something or press Back.", Keyboard: backKeyboard()}
	}
	if err := b.Db.AttachComment(ctx, gameID, reviewID, ev.text); err != nil {
		return b.fail(ev, err)
	}
	b.Metrics.CommentsAttached.Inc()
	ev.session.Clear()
	return Reply{Text: "✅ Your comment was sent to moderation!", Keyboard: mainMenu()}
}

func (b *Bot) handleAddGame(_ context.Context, ev *event) Reply {
	ev.session.Clear()
	ev.session.State = state.AddingGame
	return Reply{Text: submissionTemplate(), Keyboard: backKeyboard()}
}

func (b *Bot) handleSubmission(ctx context.Context, ev *event) Reply {
	game := parser.ParseSubmission(ev.text)
	ev.session.Clear()
	gameID, err := b.Db.CreateGame(ctx, game)
	if err != nil {
		b.countFailure(kindStore)
		ev.log.Error("Failed to save submitted game", err)
		return Reply{Text: "❌ Could not add the game. Please try again.", Keyboard: mainMenu()}
	}
	b.Metrics.GamesSubmitted.Inc()
	ev.log.Info(fmt.Sprintf("Submitted game %d", gameID))
	return Reply{
		Text:     "✅ The game was sent to moderation! Once approved it will be available to everyone.",
		Keyboard: mainMenu(),
	}
}

// handleUnknown re-prompts for the current step without changing state.
func (b *Bot) handleUnknown(_ context.Context, ev *event) Reply {
	switch ev.session.State {
	case state.SelectingGoal:
		return Reply{Text: "Please choose a goal from the keyboard:", Keyboard: goalKeyboard()}
	case state.SelectingAge:
		return Reply{Text: "Please choose an age group from the keyboard:", Keyboard: ageKeyboard()}
	case state.WaitingCommentChoice:
		return Reply{Text: "Would you like to add a comment? Answer Yes or No.", Keyboard: yesNoKeyboard()}
	}
	return Reply{Text: "I didn't get that. Use the menu below.", Keyboard: mainMenu()}
}

func submissionTemplate() string {
	examples := map[string]string{
		parser.KeyName:        "Name of the game",
		parser.KeyGoal:        strings.Join(db.Goals, "/"),
		parser.KeyAge:         strings.Join(db.Ages, "/"),
		parser.KeyDescription: "Short description",
		parser.KeyPrep:        "What to prepare",
		parser.KeyRules:       "How to play",
		parser.KeyInstruction: "What to tell the kids",
	}
	lines := make([]string, 0, len(parser.SubmissionKeys))
	for _, key := range parser.SubmissionKeys {
		lines = append(lines, key+": "+examples[key])
	}
	return "To add a new game, send it in this format:\n\n" + strings.Join(lines, "\n")
}
