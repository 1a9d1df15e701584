package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/anchal00/campbot/internal/db"
	dbMock "github.com/anchal00/campbot/internal/db/mocks"
	"github.com/anchal00/campbot/internal/logger"
	"github.com/anchal00/campbot/internal/metrics"
	"github.com/anchal00/campbot/internal/state"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const user state.UserID = 1001

type BotTestSuite struct {
	suite.Suite
	repo     *db.SqliteStore
	sessions *state.InMemorySessionStore
	bot      *Bot
	ctx      context.Context
}

func (suite *BotTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = &db.SqliteStore{Logger: logger.New("test_database")}
	err := suite.repo.SetupConnection(filepath.Join(suite.T().TempDir(), "bot_test"))
	suite.Require().NoError(err)
	suite.sessions = state.NewInMemorySessionStore()
	suite.bot = New(suite.repo, suite.sessions, metrics.New(nil))
}

func (suite *BotTestSuite) TearDownTest() {
	suite.repo.CloseConnection()
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}

func (suite *BotTestSuite) send(text string) Reply {
	return suite.bot.Handle(suite.ctx, user, text)
}

func (suite *BotTestSuite) session() *state.Session {
	s, err := suite.sessions.GetSession(suite.ctx, user)
	suite.Require().NoError(err)
	return s
}

func (suite *BotTestSuite) setSession(s *state.Session) {
	suite.Require().NoError(suite.sessions.SetSession(suite.ctx, user, s))
}

func (suite *BotTestSuite) approvedGame(g db.NewGame) int64 {
	id, err := suite.repo.CreateGame(suite.ctx, g)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.SetGameStatus(suite.ctx, id, db.StatusApproved))
	return id
}

func (suite *BotTestSuite) TestStartShowsMainMenu() {
	suite.setSession(&state.Session{State: state.SelectingAge, Goal: "Intro"})
	reply := suite.send("/start")
	suite.Contains(reply.Text, "camp counselors")
	suite.Equal(mainMenu(), reply.Keyboard)
	suite.True(suite.session().IsIdle())
}

func (suite *BotTestSuite) TestFindGameFlow() {
	unrated := suite.approvedGame(db.NewGame{Name: "Name chain", Description: "Learn names", Goal: "Bonding", Age: "All"})
	rated := suite.approvedGame(db.NewGame{Name: "Trust walk", Description: "Guide a partner", Goal: "Bonding", Age: "10-12"})
	for i := 0; i < 5; i++ {
		_, err := suite.repo.RecordRating(suite.ctx, rated, int64(i), 4)
		suite.Require().NoError(err)
	}
	_, err := suite.repo.CreateGame(suite.ctx, db.NewGame{Name: "Unapproved", Goal: "Bonding", Age: "10-12"})
	suite.Require().NoError(err)

	reply := suite.send(TokenFindGame)
	suite.Equal(goalKeyboard(), reply.Keyboard)
	suite.Equal(state.SelectingGoal, suite.session().State)

	reply = suite.send("Bonding")
	suite.Equal(ageKeyboard(), reply.Keyboard)
	suite.Equal(state.SelectingAge, suite.session().State)
	suite.Equal("Bonding", suite.session().Goal)

	reply = suite.send("10-12")
	suite.Equal(ParseModeHTML, reply.ParseMode)
	suite.Contains(reply.Text, "New: Name chain</b>")
	suite.Contains(reply.Text, "Popular: Trust walk</b>")
	suite.Contains(reply.Text, "Top: Trust walk</b>")
	suite.Contains(reply.Text, fmt.Sprintf("/game_%d", unrated))
	suite.Contains(reply.Text, fmt.Sprintf("/game_%d", rated))
	suite.Contains(reply.Text, "No ratings yet")
	suite.NotContains(reply.Text, "Unapproved")
	suite.True(suite.session().IsIdle())
}

func (suite *BotTestSuite) TestFindGameNoMatches() {
	suite.send(TokenFindGame)
	suite.send("Ambient")
	reply := suite.send("16+")
	suite.Contains(reply.Text, "No approved games")
	suite.True(suite.session().IsIdle())
}

func (suite *BotTestSuite) TestUnknownTokensKeepState() {
	suite.send(TokenFindGame)
	reply := suite.send("Swimming")
	suite.Equal(state.SelectingGoal, suite.session().State)
	suite.Equal(goalKeyboard(), reply.Keyboard)

	suite.send("Active")
	reply = suite.send("5")
	suite.Equal(state.SelectingAge, suite.session().State)
	suite.Equal(ageKeyboard(), reply.Keyboard)
	suite.Equal("Active", suite.session().Goal)
}

func (suite *BotTestSuite) TestBackFromEveryState() {
	sessions := []*state.Session{
		{State: state.SelectingGoal},
		{State: state.SelectingAge, Goal: "Intro"},
		{State: state.Idle, GameID: 3},
		{State: state.WaitingCommentChoice, GameID: 3, ReviewID: 4},
		{State: state.AddingComment, GameID: 3, ReviewID: 4},
		{State: state.AddingGame},
	}
	for _, s := range sessions {
		suite.Run(string(s.State), func() {
			suite.setSession(s)
			reply := suite.send(TokenBack)
			suite.Equal(mainMenu(), reply.Keyboard)
			suite.True(suite.session().IsIdle())
		})
	}
}

func (suite *BotTestSuite) TestViewRateAndComment() {
	id := suite.approvedGame(db.NewGame{Name: "Relay <fast>", Prep: "Batons", Rules: "Run", Instruction: "Go!", Goal: "Active", Age: "All"})

	reply := suite.send(fmt.Sprintf("/game_%d", id))
	suite.Contains(reply.Text, "Relay &lt;fast&gt;")
	suite.Contains(reply.Text, "Batons")
	suite.Contains(reply.Text, "No ratings yet")
	suite.Equal(ratingKeyboard(), reply.Keyboard)
	suite.Equal(state.Idle, suite.session().State)
	suite.Equal(id, suite.session().GameID)

	reply = suite.send("4")
	suite.Contains(reply.Text, "4")
	suite.Equal(yesNoKeyboard(), reply.Keyboard)
	s := suite.session()
	suite.Equal(state.WaitingCommentChoice, s.State)
	suite.NotZero(s.ReviewID)
	reviewID := s.ReviewID

	suite.send(TokenYes)
	suite.Equal(state.AddingComment, suite.session().State)

	reply = suite.send("Kids loved it")
	suite.Contains(reply.Text, "moderation")
	suite.True(suite.session().IsIdle())

	review, err := suite.repo.GetReview(suite.ctx, reviewID)
	suite.Require().NoError(err)
	suite.Equal(4, review.Rating)
	suite.Equal("Kids loved it", review.Comment.String)
	suite.False(review.Moderated)

	game, err := suite.repo.GetApprovedGame(suite.ctx, id)
	suite.Require().NoError(err)
	suite.EqualValues(4, game.RatingSum)
	suite.EqualValues(1, game.RatingCount)
	suite.EqualValues(1, game.PlaysCount)
}

func (suite *BotTestSuite) TestViewGameWithSpaceSyntax() {
	id := suite.approvedGame(db.NewGame{Name: "Statues", Goal: "Active", Age: "All"})
	suite.send(fmt.Sprintf("/game %d", id))
	suite.Equal(id, suite.session().GameID)
}

func (suite *BotTestSuite) TestDeclineComment() {
	id := suite.approvedGame(db.NewGame{Name: "Relay", Goal: "Active", Age: "All"})
	suite.send(fmt.Sprintf("/game_%d", id))
	suite.send("2")
	reply := suite.send(TokenNo)
	suite.Equal(mainMenu(), reply.Keyboard)
	suite.True(suite.session().IsIdle())
}

func (suite *BotTestSuite) TestViewUnapprovedGame() {
	id, err := suite.repo.CreateGame(suite.ctx, db.NewGame{Name: "Draft"})
	suite.Require().NoError(err)
	reply := suite.send(fmt.Sprintf("/game_%d", id))
	suite.Contains(reply.Text, "not found")
	suite.True(suite.session().IsIdle())

	reply = suite.send("/game_notanumber")
	suite.Contains(reply.Text, "not found")
}

func (suite *BotTestSuite) TestRatingWithoutGameIsNoOp() {
	reply := suite.send("5")
	suite.Contains(reply.Text, "Open a game")
	suite.True(suite.session().IsIdle())

	var reviews int
	suite.Require().NoError(suite.repo.Conn.Get(&reviews, `SELECT COUNT(*) FROM reviews`))
	suite.Zero(reviews)
}

func (suite *BotTestSuite) TestMalformedRatingKeepsGame() {
	id := suite.approvedGame(db.NewGame{Name: "Relay", Goal: "Active", Age: "All"})
	suite.send(fmt.Sprintf("/game_%d", id))

	for _, text := range []string{"10", "rated 5", "16+"} {
		reply := suite.send(text)
		suite.Contains(reply.Text, "from 1 to 5", text)
		suite.Equal(id, suite.session().GameID)
		suite.Equal(state.Idle, suite.session().State)
	}
	reply := suite.send("5 stars")
	suite.Contains(reply.Text, "rating it 5")
}

func (suite *BotTestSuite) TestCommentWithoutRatingIsStateMismatch() {
	suite.setSession(&state.Session{State: state.AddingComment, GameID: 3})
	reply := suite.send("Nice game")
	suite.Contains(reply.Text, "rate the game first")
	suite.True(suite.session().IsIdle())

	var comments int
	suite.Require().NoError(suite.repo.Conn.Get(&comments, `SELECT COUNT(*) FROM reviews WHERE comment IS NOT NULL`))
	suite.Zero(comments)
}

func (suite *BotTestSuite) TestCommentOnForeignReviewIsStateMismatch() {
	mine := suite.approvedGame(db.NewGame{Name: "Mine", Goal: "Active", Age: "All"})
	other := suite.approvedGame(db.NewGame{Name: "Other", Goal: "Active", Age: "All"})
	reviewID, err := suite.repo.RecordRating(suite.ctx, other, 5, 3)
	suite.Require().NoError(err)

	suite.setSession(&state.Session{State: state.AddingComment, GameID: mine, ReviewID: reviewID})
	reply := suite.send("Sneaky")
	suite.Contains(reply.Text, "rate the game first")
	suite.True(suite.session().IsIdle())
}

func (suite *BotTestSuite) TestAddGameMinimalSubmission() {
	reply := suite.send(TokenAddGame)
	suite.Contains(reply.Text, "Name: ")
	suite.Contains(reply.Text, "Instruction: ")
	suite.Equal(state.AddingGame, suite.session().State)

	reply = suite.send("Name: Shadow tag\nGoal: Active")
	suite.Contains(reply.Text, "moderation")
	suite.True(suite.session().IsIdle())

	pending, err := suite.repo.ListGamesByStatus(suite.ctx, db.StatusPending)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("Shadow tag", pending[0].Name)
	suite.Equal("Active", pending[0].Goal)
	suite.Empty(pending[0].Age)
	suite.Empty(pending[0].Description)
	suite.Empty(pending[0].Prep)
	suite.Empty(pending[0].Rules)
	suite.Empty(pending[0].Instruction)
}

func (suite *BotTestSuite) TestAddGameClearsPreviousSession() {
	suite.setSession(&state.Session{State: state.Idle, GameID: 9})
	suite.send(TokenAddGame)
	suite.Equal(state.Session{State: state.AddingGame}, *suite.session())
}

func (suite *BotTestSuite) TestRatingLookingTextWhileAddingGameIsSubmission() {
	suite.setSession(&state.Session{State: state.AddingGame, GameID: 9})
	suite.send("5")

	pending, err := suite.repo.ListGamesByStatus(suite.ctx, db.StatusPending)
	suite.Require().NoError(err)
	suite.Len(pending, 1)
	var reviews int
	suite.Require().NoError(suite.repo.Conn.Get(&reviews, `SELECT COUNT(*) FROM reviews`))
	suite.Zero(reviews)
}

func (suite *BotTestSuite) TestMenuTextWhileAddingCommentIsComment() {
	id := suite.approvedGame(db.NewGame{Name: "Relay", Goal: "Active", Age: "All"})
	suite.send(fmt.Sprintf("/game_%d", id))
	suite.send("3")
	suite.send(TokenYes)
	reviewID := suite.session().ReviewID

	suite.send(TokenFindGame)
	review, err := suite.repo.GetReview(suite.ctx, reviewID)
	suite.Require().NoError(err)
	suite.Equal(TokenFindGame, review.Comment.String)
}

func (suite *BotTestSuite) TestConcurrentEventsForSameUser() {
	id := suite.approvedGame(db.NewGame{Name: "Relay", Goal: "Active", Age: "All"})
	suite.send(fmt.Sprintf("/game_%d", id))

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suite.bot.Handle(suite.ctx, user, "5")
		}()
	}
	wg.Wait()

	game, err := suite.repo.GetApprovedGame(suite.ctx, id)
	suite.Require().NoError(err)
	suite.EqualValues(1, game.RatingCount, "only the first rating moves the flow to the comment step")
	suite.Equal(state.WaitingCommentChoice, suite.session().State)
}

func (suite *BotTestSuite) TestMessagesAreCounted() {
	suite.send(TokenFindGame)
	suite.send("Nope")
	suite.Equal(1.0, testutil.ToFloat64(suite.bot.Metrics.Messages.WithLabelValues("find_game")))
	suite.Equal(1.0, testutil.ToFloat64(suite.bot.Metrics.Messages.WithLabelValues("fallback")))
}

type recordingMessenger struct {
	mu      sync.Mutex
	replies map[state.UserID][]Reply
	err     error
}

func (m *recordingMessenger) Send(_ context.Context, user state.UserID, reply Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.replies == nil {
		m.replies = map[state.UserID][]Reply{}
	}
	m.replies[user] = append(m.replies[user], reply)
	return nil
}

func (suite *BotTestSuite) TestDispatchSendsReply() {
	m := &recordingMessenger{}
	suite.Require().NoError(suite.bot.Dispatch(suite.ctx, m, user, "/start"))
	suite.Len(m.replies[user], 1)

	m.err = errors.New("connection closed")
	suite.Error(suite.bot.Dispatch(suite.ctx, m, user, "/start"))
}

func newMockBot(t *testing.T) (*Bot, *dbMock.Repository, *state.InMemorySessionStore) {
	repo := dbMock.NewRepository(t)
	sessions := state.NewInMemorySessionStore()
	return New(repo, sessions, nil), repo, sessions
}

func TestStoreFailureDuringRatingClearsSession(t *testing.T) {
	b, repo, sessions := newMockBot(t)
	ctx := context.Background()
	repo.On("RecordRating", mock.Anything, int64(7), int64(user), 5).Return(int64(0), errors.New("disk I/O error"))
	assert.NoError(t, sessions.SetSession(ctx, user, &state.Session{State: state.Idle, GameID: 7}))

	reply := b.Handle(ctx, user, "5")
	assert.Contains(t, reply.Text, "Something went wrong")
	assert.NotContains(t, reply.Text, "disk")
	s, _ := sessions.GetSession(ctx, user)
	assert.True(t, s.IsIdle())
	assert.Equal(t, 1.0, testutil.ToFloat64(b.Metrics.Failures.WithLabelValues("store")))
}

func TestStoreFailureDuringSearchClearsSession(t *testing.T) {
	b, repo, sessions := newMockBot(t)
	ctx := context.Background()
	repo.On("ListApprovedGames", mock.Anything, "Intro", "7-9").Return(nil, errors.New("database is locked"))
	assert.NoError(t, sessions.SetSession(ctx, user, &state.Session{State: state.SelectingAge, Goal: "Intro"}))

	reply := b.Handle(ctx, user, "7-9")
	assert.Contains(t, reply.Text, "Something went wrong")
	s, _ := sessions.GetSession(ctx, user)
	assert.True(t, s.IsIdle())
}

func TestStoreFailureDuringSubmissionClearsSession(t *testing.T) {
	b, repo, sessions := newMockBot(t)
	ctx := context.Background()
	repo.On("CreateGame", mock.Anything, db.NewGame{Name: "X"}).Return(int64(0), errors.New("readonly database"))
	assert.NoError(t, sessions.SetSession(ctx, user, &state.Session{State: state.AddingGame}))

	reply := b.Handle(ctx, user, "Name: X")
	assert.Contains(t, reply.Text, "Could not add the game")
	s, _ := sessions.GetSession(ctx, user)
	assert.True(t, s.IsIdle())
}

func TestRatingRaceOnDeletedGameIsNotFound(t *testing.T) {
	b, repo, sessions := newMockBot(t)
	ctx := context.Background()
	repo.On("RecordRating", mock.Anything, int64(7), int64(user), 3).Return(int64(0), db.ErrNotFound)
	assert.NoError(t, sessions.SetSession(ctx, user, &state.Session{State: state.Idle, GameID: 7}))

	reply := b.Handle(ctx, user, "3")
	assert.Contains(t, reply.Text, "not found")
	s, _ := sessions.GetSession(ctx, user)
	assert.True(t, s.IsIdle())
}

type failingSessions struct{ state.SessionStore }

func (failingSessions) GetSession(context.Context, state.UserID) (*state.Session, error) {
	return nil, errors.New("redis: connection refused")
}

func TestSessionStoreFailureIsReported(t *testing.T) {
	repo := dbMock.NewRepository(t)
	b := New(repo, failingSessions{}, nil)
	reply := b.Handle(context.Background(), user, "/start")
	assert.Contains(t, reply.Text, "Something went wrong")
}

func TestKeyboardLayouts(t *testing.T) {
	assert.Equal(t, [][]string{
		{"Intro", "Active"},
		{"Bonding", "Icebreaker-scan"},
		{"Ambient"},
		{TokenBack},
	}, goalKeyboard())
	assert.Equal(t, [][]string{{"1", "2", "3", "4", "5"}, {TokenBack}}, ratingKeyboard())
}

func (suite *BotTestSuite) TestLogLinesCarryUserAndState() {
	buf := &bytes.Buffer{}
	suite.bot.Logger = logger.NewWithWriter("bot", buf)
	suite.send(TokenFindGame)
	suite.send("Intro")
	suite.send("7-9")

	out := buf.String()
	suite.Contains(out, "Searched Intro/7-9")
	suite.Contains(out, "user=1001")
	suite.Contains(out, "state=selecting_age")
}

func TestReplyWireFormat(t *testing.T) {
	data, err := json.Marshal(Reply{Text: "hi"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(data))

	data, err = json.Marshal(Reply{Text: "<b>x</b>", Keyboard: backKeyboard(), ParseMode: ParseModeHTML})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"text":"<b>x</b>","keyboard":[["⬅️ Back"]],"parse_mode":"HTML"}`, string(data))
}
