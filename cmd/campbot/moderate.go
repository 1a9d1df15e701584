package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/moderation"

	"github.com/spf13/cobra"
)

var (
	gameStatus      string
	reviewModerated bool
)

func init() {
	moderateGameCmd.Flags().StringVar(&gameStatus, "status", "", "new status: pending, approved or rejected")
	_ = moderateGameCmd.MarkFlagRequired("status")
	moderateReviewCmd.Flags().BoolVar(&reviewModerated, "moderated", true, "mark the review comment as moderated")

	moderateCmd.AddCommand(moderateGameCmd)
	moderateCmd.AddCommand(moderateReviewCmd)
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List games and review comments waiting for moderation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGateway(func(gw *moderation.Gateway) error {
			games, err := gw.PendingGames(cmd.Context())
			if err != nil {
				return err
			}
			reviews, err := gw.PendingReviews(cmd.Context())
			if err != nil {
				return err
			}
			printPending(cmd.OutOrStdout(), games, reviews)
			return nil
		})
	},
}

var moderateCmd = &cobra.Command{
	Use:   "moderate",
	Short: "Approve games and moderate review comments",
}

var moderateGameCmd = &cobra.Command{
	Use:   "game <id>",
	Short: "Set the status of a submitted game",
	Long: `Set the status of a submitted game. Only approved games are shown to users.

Examples:
  campbot moderate game 12 --status approved
  campbot moderate game 13 --status rejected`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withGateway(func(gw *moderation.Gateway) error {
			if err := gw.SetGameStatus(cmd.Context(), gameID, db.Status(gameStatus)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Game %d is now %s\n", gameID, gameStatus)
			return nil
		})
	},
}

var moderateReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Mark a review comment as moderated",
	Long: `Mark a review comment as moderated, or send it back with --moderated=false.

Examples:
  campbot moderate review 40
  campbot moderate review 41 --moderated=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withGateway(func(gw *moderation.Gateway) error {
			if err := gw.SetReviewModerated(cmd.Context(), reviewID, reviewModerated); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Review %d moderated=%t\n", reviewID, reviewModerated)
			return nil
		})
	},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func withGateway(fn func(gw *moderation.Gateway) error) error {
	repo, err := db.SetupDB(cfg.DB)
	if err != nil {
		return err
	}
	defer repo.CloseConnection()
	return fn(moderation.NewGateway(repo, nil))
}

func printPending(out io.Writer, games []db.Game, reviews []db.Review) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Pending games: %d\n", len(games))
	if len(games) > 0 {
		fmt.Fprintln(w, "ID\tNAME\tGOAL\tAGE")
		for _, g := range games {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", g.ID, g.Name, g.Goal, g.Age)
		}
	}
	fmt.Fprintf(w, "\nUnmoderated comments: %d\n", len(reviews))
	if len(reviews) > 0 {
		fmt.Fprintln(w, "ID\tGAME\tRATING\tCOMMENT")
		for _, r := range reviews {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", r.ID, r.GameID, r.Rating, r.Comment.String)
		}
	}
	w.Flush()
}
