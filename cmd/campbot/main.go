// Package main is the campbot command: it serves the bot and gives operators
// a moderation console over the same database.
package main

import (
	"os"

	"github.com/anchal00/campbot/internal/config"
	"github.com/anchal00/campbot/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg     config.Config
	envFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "campbot",
	Short: "Game finder bot for camp counselors",
	Long: `campbot helps camp counselors find, rate and contribute group games.

Configuration is read from CAMPBOT_* environment variables, optionally
loaded from a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(moderateCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	logger.SetLevel(cfg.LogLevel)
	return nil
}
