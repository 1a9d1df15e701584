package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/recommend"
)

func renderPicks(picks []recommend.Pick) string {
	sb := strings.Builder{}
	sb.WriteString("Here are some suitable games:\n\n")
	for _, p := range picks {
		fmt.Fprintf(&sb, "🎲 <b>%s: %s</b>\n", p.Category, html.EscapeString(p.Game.Name))
		fmt.Fprintf(&sb, "📝 %s\n", html.EscapeString(p.Game.Description))
		fmt.Fprintf(&sb, "%s\n", renderRating(p.Game.RatingSum, p.Game.RatingCount))
		fmt.Fprintf(&sb, "🔗 %s_%d\n\n", CommandGame, p.Game.ID)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderDetail(d *db.GameDetail) string {
	return fmt.Sprintf("🎯 <b>%s</b>\n\n"+
		"🔧 <b>Preparation:</b>\n%s\n\n"+
		"📜 <b>Rules:</b>\n%s\n\n"+
		"🗣 <b>Instruction:</b>\n%s\n\n"+
		"%s\n\n"+
		"Rate the game:",
		html.EscapeString(d.Name),
		html.EscapeString(d.Prep),
		html.EscapeString(d.Rules),
		html.EscapeString(d.Instruction),
		renderRating(d.RatingSum, d.RatingCount),
	)
}

// renderRating never shows a score for an unrated game.
func renderRating(sum, count int64) string {
	if count <= 0 {
		return "⭐ No ratings yet"
	}
	return fmt.Sprintf("⭐ %.1f (%d ratings)", float64(sum)/float64(count), count)
}
