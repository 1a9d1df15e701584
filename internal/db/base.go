//go:generate mockery --name=Repository --output=./mocks
package db

import (
	"context"

	"github.com/anchal00/campbot/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	CloseConnection()
	CreateGame(ctx context.Context, game NewGame) (int64, error)
	GetApprovedGame(ctx context.Context, gameID int64) (*Game, error)
	GetGameDetail(ctx context.Context, gameID int64) (*GameDetail, error)
	ListApprovedGames(ctx context.Context, goal, age string) ([]Game, error)
	ListGamesByStatus(ctx context.Context, status Status) ([]Game, error)
	RecordRating(ctx context.Context, gameID, userID int64, rating int) (int64, error)
	AttachComment(ctx context.Context, gameID, reviewID int64, text string) error
	GetReview(ctx context.Context, reviewID int64) (*Review, error)
	ListUnmoderatedReviews(ctx context.Context) ([]Review, error)
	SetGameStatus(ctx context.Context, gameID int64, status Status) error
	SetReviewModerated(ctx context.Context, reviewID int64, moderated bool) error
}

// SetupDB opens (creating if needed) the sqlite database <dbName>.db and
// applies pending migrations.
func SetupDB(dbName string) (Repository, error) {
	store := &SqliteStore{
		Logger: logger.New("database"),
	}
	if err := store.SetupConnection(dbName); err != nil {
		return nil, err
	}
	return store, nil
}
