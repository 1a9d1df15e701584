package parser

import (
	"database/sql"
	"testing"

	"github.com/anchal00/campbot/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissionAllKeys(t *testing.T) {
	text := "Name: Human knot\n" +
		"Goal: Bonding\n" +
		"Age: 10-12\n" +
		"Description: Untangle yourselves\n" +
		"Prep: Nothing\n" +
		"Rules: Hold two different hands\n" +
		"Instruction: Do not let go: ever"
	got := ParseSubmission(text)
	assert.Equal(t, db.NewGame{
		Name:        "Human knot",
		Goal:        "Bonding",
		Age:         "10-12",
		Description: "Untangle yourselves",
		Prep:        "Nothing",
		Rules:       "Hold two different hands",
		Instruction: "Do not let go: ever",
	}, got)
}

func TestParseSubmissionPartialAndUnknown(t *testing.T) {
	got := ParseSubmission("Goal: Active\nColour: red\nno colon here\n  Name :  Tag  ")
	assert.Equal(t, db.NewGame{Name: "Tag", Goal: "Active"}, got)
}

func TestParseSubmissionOrderIndependentLastWins(t *testing.T) {
	got := ParseSubmission("Rules: first\r\nName: Relay\nRules: second")
	assert.Equal(t, "Relay", got.Name)
	assert.Equal(t, "second", got.Rules)
}

func TestParseSubmissionEmpty(t *testing.T) {
	assert.Equal(t, db.NewGame{}, ParseSubmission(""))
}

func TestParseStatusRequest(t *testing.T) {
	req, err := ParseStatusRequest([]byte(`{"status":"approved"}`))
	require.NoError(t, err)
	assert.Equal(t, "approved", req.Status)

	for _, body := range []string{`{"status":"archived"}`, `{}`, `not json`} {
		_, err := ParseStatusRequest([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestParseModeratedRequest(t *testing.T) {
	req, err := ParseModeratedRequest([]byte(`{"moderated":false}`))
	require.NoError(t, err)
	require.NotNil(t, req.Moderated)
	assert.False(t, *req.Moderated)

	_, err = ParseModeratedRequest([]byte(`{}`))
	assert.Error(t, err)
}

func TestNewReviewResponsesFlattenComment(t *testing.T) {
	resp := NewReviewResponses([]db.Review{
		{ID: 1, GameID: 2, Rating: 4, Comment: sql.NullString{String: "fun", Valid: true}},
		{ID: 3, GameID: 2, Rating: 1},
	})
	require.Len(t, resp, 2)
	assert.Equal(t, "fun", resp[0].Comment)
	assert.Empty(t, resp[1].Comment)
}

func TestNewGameResponsesIncludeAverage(t *testing.T) {
	resp := NewGameResponses([]db.Game{{ID: 1, RatingSum: 9, RatingCount: 2, Status: db.StatusApproved}})
	require.Len(t, resp, 1)
	assert.Equal(t, 4.5, resp[0].Average)
	assert.Equal(t, "approved", resp[0].Status)
	assert.Empty(t, NewGameResponses(nil))
}
