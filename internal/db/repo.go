package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anchal00/campbot/internal/logger"

	"github.com/jmoiron/sqlx"
)

const gameColumns = `id, name, description, goal, age, prep, rules, instruction,
  COALESCE(rating_sum, 0) AS rating_sum,
  COALESCE(rating_count, 0) AS rating_count,
  COALESCE(plays_count, 0) AS plays_count,
  COALESCE(status, 'pending') AS status`

const reviewColumns = `id, COALESCE(game_id, 0) AS game_id, COALESCE(user_id, 0) AS user_id,
  COALESCE(rating, 0) AS rating, comment, COALESCE(moderated, FALSE) AS moderated`

type SqliteStore struct {
	Conn   *sqlx.DB
	Logger logger.Logger
}

// DSN builds the sqlite connection string. Write transactions take the
// database lock up front so concurrent raters queue instead of failing mid-way.
func DSN(dbname string) string {
	return fmt.Sprintf("file:%s.db?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate", dbname)
}

func (s *SqliteStore) SetupConnection(dbname string) error {
	sqliteDSN := DSN(dbname)
	db, err := sqlx.Connect("sqlite3", sqliteDSN)
	if err != nil {
		s.Logger.Error("Database setup failed", err)
		return err
	}
	s.Conn = db
	version, err := Migrate(db.DB)
	if err != nil {
		s.Logger.Error("Database migration failed", err)
		db.Close()
		return err
	}
	s.Logger.Info(fmt.Sprintf("Database %s.db setup successfully at schema version %d", dbname, version))
	return nil
}

func (s *SqliteStore) CloseConnection() {
	s.Logger.Info("Closing database connection")
	if err := s.Conn.Close(); err != nil {
		s.Logger.Error("Failed to tear down database connection", err)
		return
	}
	s.Logger.Info("Database connection closed successfully")
}

func (s *SqliteStore) rollback(txn *sqlx.Tx, op string, cause error) error {
	if errRoll := txn.Rollback(); errRoll != nil {
		s.Logger.Error(fmt.Sprintf("Failed to rollback %s txn", op), errRoll)
	}
	return cause
}

func (s *SqliteStore) CreateGame(ctx context.Context, game NewGame) (int64, error) {
	stmt := `INSERT INTO games(name, description, goal, age, prep, rules, instruction, status)
  VALUES(?, ?, ?, ?, ?, ?, ?, 'pending');`
	res, err := s.Conn.ExecContext(ctx, stmt,
		game.Name, game.Description, game.Goal, game.Age, game.Prep, game.Rules, game.Instruction)
	if err != nil {
		s.Logger.Error("Failed to create new game", err)
		return 0, fmt.Errorf("create game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create game: %w", err)
	}
	s.Logger.Info(fmt.Sprintf("Game %d submitted for moderation", id))
	return id, nil
}

func (s *SqliteStore) GetApprovedGame(ctx context.Context, gameID int64) (*Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ? AND status = 'approved';`
	game := &Game{}
	if err := s.Conn.GetContext(ctx, game, query, gameID); err != nil {
		return nil, s.notFoundOr(err, fmt.Sprintf("Failed to fetch game %d", gameID))
	}
	return game, nil
}

func (s *SqliteStore) GetGameDetail(ctx context.Context, gameID int64) (*GameDetail, error) {
	query := `SELECT id, name, prep, rules, instruction,
  COALESCE(rating_sum, 0) AS rating_sum, COALESCE(rating_count, 0) AS rating_count
  FROM games WHERE id = ? AND status = 'approved';`
	detail := &GameDetail{}
	if err := s.Conn.GetContext(ctx, detail, query, gameID); err != nil {
		return nil, s.notFoundOr(err, fmt.Sprintf("Failed to fetch game detail %d", gameID))
	}
	return detail, nil
}

func (s *SqliteStore) ListApprovedGames(ctx context.Context, goal, age string) ([]Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
  WHERE goal = ? AND (age = ? OR age = ?) AND status = 'approved' ORDER BY id;`
	games := []Game{}
	if err := s.Conn.SelectContext(ctx, &games, query, goal, age, AgeAll); err != nil {
		s.Logger.Error("Failed to list approved games", err)
		return nil, fmt.Errorf("list approved games: %w", err)
	}
	return games, nil
}

func (s *SqliteStore) ListGamesByStatus(ctx context.Context, status Status) ([]Game, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	query := `SELECT ` + gameColumns + ` FROM games WHERE COALESCE(status, 'pending') = ? ORDER BY id;`
	games := []Game{}
	if err := s.Conn.SelectContext(ctx, &games, query, status); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to list %s games", status), err)
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// RecordRating adds the rating to the game aggregates and inserts the review
// in a single transaction. Only approved games can be rated.
func (s *SqliteStore) RecordRating(ctx context.Context, gameID, userID int64, rating int) (int64, error) {
	if rating < 1 || rating > 5 {
		return 0, ErrInvalidRating
	}
	txn, err := s.Conn.BeginTxx(ctx, nil)
	if err != nil {
		s.Logger.Error("Failed to record rating", err)
		return 0, fmt.Errorf("begin rating txn: %w", err)
	}
	updateGameSQL := `UPDATE games
  SET rating_sum = COALESCE(rating_sum, 0) + ?,
    rating_count = COALESCE(rating_count, 0) + 1,
    plays_count = COALESCE(plays_count, 0) + 1
  WHERE id = ? AND status = 'approved';`
	res, err := txn.ExecContext(ctx, updateGameSQL, rating, gameID)
	if err != nil {
		s.Logger.Error("Failed to update game rating", err)
		return 0, s.rollback(txn, "RecordRating", fmt.Errorf("update rating: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, s.rollback(txn, "RecordRating", fmt.Errorf("update rating: %w", err))
	}
	if affected == 0 {
		return 0, s.rollback(txn, "RecordRating", ErrNotFound)
	}
	insertReviewSQL := `INSERT INTO reviews(game_id, user_id, rating) VALUES(?, ?, ?);`
	res, err = txn.ExecContext(ctx, insertReviewSQL, gameID, userID, rating)
	if err != nil {
		s.Logger.Error("Failed to save review", err)
		return 0, s.rollback(txn, "RecordRating", fmt.Errorf("insert review: %w", err))
	}
	reviewID, err := res.LastInsertId()
	if err != nil {
		return 0, s.rollback(txn, "RecordRating", fmt.Errorf("insert review: %w", err))
	}
	if errCommit := txn.Commit(); errCommit != nil {
		s.Logger.Error("Failed to Commit RecordRating txn", errCommit)
		return 0, fmt.Errorf("commit rating: %w", errCommit)
	}
	s.Logger.Info(fmt.Sprintf("User %d rated game %d with %d (review %d)", userID, gameID, rating, reviewID))
	return reviewID, nil
}

// AttachComment stores the comment on a review of the given game and sends it
// back to moderation.
func (s *SqliteStore) AttachComment(ctx context.Context, gameID, reviewID int64, text string) error {
	stmt := `UPDATE reviews SET comment = ?, moderated = FALSE WHERE id = ? AND game_id = ?;`
	res, err := s.Conn.ExecContext(ctx, stmt, text, reviewID, gameID)
	if err != nil {
		s.Logger.Error("Failed to attach comment", err)
		return fmt.Errorf("attach comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach comment: %w", err)
	}
	if affected == 1 {
		s.Logger.Info(fmt.Sprintf("Comment added to review %d", reviewID))
		return nil
	}
	if _, err := s.GetReview(ctx, reviewID); err != nil {
		return err
	}
	return ErrStateMismatch
}

func (s *SqliteStore) GetReview(ctx context.Context, reviewID int64) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?;`
	review := &Review{}
	if err := s.Conn.GetContext(ctx, review, query, reviewID); err != nil {
		return nil, s.notFoundOr(err, fmt.Sprintf("Failed to fetch review %d", reviewID))
	}
	return review, nil
}

func (s *SqliteStore) ListUnmoderatedReviews(ctx context.Context) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
  WHERE COALESCE(moderated, FALSE) = FALSE AND comment IS NOT NULL ORDER BY id;`
	reviews := []Review{}
	if err := s.Conn.SelectContext(ctx, &reviews, query); err != nil {
		s.Logger.Error("Failed to list unmoderated reviews", err)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *SqliteStore) SetGameStatus(ctx context.Context, gameID int64, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	stmt := `UPDATE games SET status = ? WHERE id = ?;`
	res, err := s.Conn.ExecContext(ctx, stmt, status, gameID)
	if err != nil {
		s.Logger.Error("Failed to update game status", err)
		return fmt.Errorf("set game status: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	s.Logger.Info(fmt.Sprintf("Game %d is now %s", gameID, status))
	return nil
}

func (s *SqliteStore) SetReviewModerated(ctx context.Context, reviewID int64, moderated bool) error {
	stmt := `UPDATE reviews SET moderated = ? WHERE id = ?;`
	res, err := s.Conn.ExecContext(ctx, stmt, moderated, reviewID)
	if err != nil {
		s.Logger.Error("Failed to update review moderation", err)
		return fmt.Errorf("set review moderated: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	s.Logger.Info(fmt.Sprintf("Review %d moderated=%t", reviewID, moderated))
	return nil
}

func (s *SqliteStore) notFoundOr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	s.Logger.Error(msg, err)
	return fmt.Errorf("%s: %w", msg, err)
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
