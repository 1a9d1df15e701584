// Package recommend picks the games suggested for a (goal, age) query.
package recommend

import (
	"cmp"
	"slices"

	"github.com/anchal00/campbot/internal/db"
)

type Category string

const (
	CategoryNew     Category = "New"
	CategoryPopular Category = "Popular"
	CategoryTop     Category = "Top"
)

type Pick struct {
	Category Category
	Game     db.Game
}

type ranking struct {
	category Category
	compare  func(a, b db.Game) int
}

// Each ranking orders candidates best-first; ties fall back to the lower id.
var rankings = []ranking{
	{CategoryNew, func(a, b db.Game) int {
		return cmp.Or(
			cmp.Compare(a.RatingCount, b.RatingCount),
			cmp.Compare(b.Average(), a.Average()),
			cmp.Compare(a.ID, b.ID),
		)
	}},
	{CategoryPopular, func(a, b db.Game) int {
		return cmp.Or(
			cmp.Compare(b.RatingCount, a.RatingCount),
			cmp.Compare(a.ID, b.ID),
		)
	}},
	{CategoryTop, func(a, b db.Game) int {
		return cmp.Or(
			cmp.Compare(b.Average(), a.Average()),
			cmp.Compare(a.ID, b.ID),
		)
	}},
}

// Matches reports whether an approved game fits the goal and age bracket.
// Games marked for every age match any bracket.
func Matches(g db.Game, goal, age string) bool {
	return g.Status == db.StatusApproved &&
		g.Goal == goal &&
		(g.Age == age || g.Age == db.AgeAll)
}

// Recommend returns at most one game per category, in New, Popular, Top
// order. Categories are ranked independently, so one game may fill several.
func Recommend(games []db.Game, goal, age string) []Pick {
	candidates := make([]db.Game, 0, len(games))
	for _, g := range games {
		if Matches(g, goal, age) {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	picks := make([]Pick, 0, len(rankings))
	for _, r := range rankings {
		picks = append(picks, Pick{
			Category: r.category,
			Game:     slices.MinFunc(candidates, r.compare),
		})
	}
	return picks
}
