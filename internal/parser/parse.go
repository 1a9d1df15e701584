package parser

import (
	"encoding/json"
	"strings"

	"github.com/anchal00/campbot/internal/db"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Submission keys, one per line as "Key: value".
const (
	KeyName        = "Name"
	KeyGoal        = "Goal"
	KeyAge         = "Age"
	KeyDescription = "Description"
	KeyPrep        = "Prep"
	KeyRules       = "Rules"
	KeyInstruction = "Instruction"
)

// SubmissionKeys lists the keys in the order the template shows them.
var SubmissionKeys = []string{KeyName, KeyGoal, KeyAge, KeyDescription, KeyPrep, KeyRules, KeyInstruction}

// ParseSubmission reads a game contribution. Lines without a colon and
// unknown keys are ignored, missing keys stay empty and a repeated key keeps
// its last value. It never fails.
func ParseSubmission(text string) db.NewGame {
	fields := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return db.NewGame{
		Name:        fields[KeyName],
		Goal:        fields[KeyGoal],
		Age:         fields[KeyAge],
		Description: fields[KeyDescription],
		Prep:        fields[KeyPrep],
		Rules:       fields[KeyRules],
		Instruction: fields[KeyInstruction],
	}
}

type ChatMessage struct {
	Text string `json:"text"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type ModeratedRequest struct {
	Moderated *bool `json:"moderated" validate:"required"`
}

func ParseStatusRequest(data []byte) (*StatusRequest, error) {
	request := &StatusRequest{}
	if err := json.Unmarshal(data, request); err != nil {
		return nil, err
	}
	if err := validate.Struct(request); err != nil {
		return nil, err
	}
	return request, nil
}

func ParseModeratedRequest(data []byte) (*ModeratedRequest, error) {
	request := &ModeratedRequest{}
	if err := json.Unmarshal(data, request); err != nil {
		return nil, err
	}
	if err := validate.Struct(request); err != nil {
		return nil, err
	}
	return request, nil
}

type GameResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Goal        string  `json:"goal"`
	Age         string  `json:"age"`
	Prep        string  `json:"prep"`
	Rules       string  `json:"rules"`
	Instruction string  `json:"instruction"`
	Status      string  `json:"status"`
	RatingCount int64   `json:"rating_count"`
	Average     float64 `json:"average"`
}

type ReviewResponse struct {
	ID        int64  `json:"id"`
	GameID    int64  `json:"game_id"`
	UserID    int64  `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Moderated bool   `json:"moderated"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewGameResponses(games []db.Game) []GameResponse {
	resp := make([]GameResponse, 0, len(games))
	for _, g := range games {
		resp = append(resp, GameResponse{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Goal:        g.Goal,
			Age:         g.Age,
			Prep:        g.Prep,
			Rules:       g.Rules,
			Instruction: g.Instruction,
			Status:      string(g.Status),
			RatingCount: g.RatingCount,
			Average:     g.Average(),
		})
	}
	return resp
}

func NewReviewResponses(reviews []db.Review) []ReviewResponse {
	resp := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, ReviewResponse{
			ID:        r.ID,
			GameID:    r.GameID,
			UserID:    r.UserID,
			Rating:    r.Rating,
			Comment:   r.Comment.String,
			Moderated: r.Moderated,
		})
	}
	return resp
}

// ModerationResult echoes the change a moderator applied.
type ModerationResult struct {
	ID        int64  `json:"id"`
	Status    string `json:"status,omitempty"`
	Moderated *bool  `json:"moderated,omitempty"`
}
