// Package moderation is the operator side of the content store: it approves
// or rejects submitted games and marks review comments as moderated.
package moderation

import (
	"context"
	"fmt"

	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/logger"
	"github.com/anchal00/campbot/internal/metrics"
)

const (
	actionGameStatus      = "game_status"
	actionReviewModerated = "review_moderated"
)

type Gateway struct {
	Db      db.Repository
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewGateway(repo db.Repository, m *metrics.Metrics) *Gateway {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Gateway{
		Db:      repo,
		Logger:  logger.New("moderation"),
		Metrics: m,
	}
}

// SetGameStatus moves a game between pending, approved and rejected.
// Only approved games are ever shown to users.
func (g *Gateway) SetGameStatus(ctx context.Context, gameID int64, status db.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", db.ErrInvalidStatus, status)
	}
	if err := g.Db.SetGameStatus(ctx, gameID, status); err != nil {
		return err
	}
	g.Metrics.ModerationActions.WithLabelValues(actionGameStatus).Inc()
	g.Logger.Info(fmt.Sprintf("Game %d set to %s", gameID, status))
	return nil
}

func (g *Gateway) SetReviewModerated(ctx context.Context, reviewID int64, moderated bool) error {
	if err := g.Db.SetReviewModerated(ctx, reviewID, moderated); err != nil {
		return err
	}
	g.Metrics.ModerationActions.WithLabelValues(actionReviewModerated).Inc()
	g.Logger.Info(fmt.Sprintf("Review %d moderated=%t", reviewID, moderated))
	return nil
}

func (g *Gateway) GamesByStatus(ctx context.Context, status db.Status) ([]db.Game, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", db.ErrInvalidStatus, status)
	}
	return g.Db.ListGamesByStatus(ctx, status)
}

// PendingGames lists submissions waiting for a decision.
func (g *Gateway) PendingGames(ctx context.Context) ([]db.Game, error) {
	return g.GamesByStatus(ctx, db.StatusPending)
}

// PendingReviews lists reviews whose comment has not been moderated yet.
func (g *Gateway) PendingReviews(ctx context.Context) ([]db.Review, error) {
	return g.Db.ListUnmoderatedReviews(ctx)
}
