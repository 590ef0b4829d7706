// Package main provides the support agent CLI: an interactive chat, one-shot
// questions, and an index report.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/support-router/internal/app"
	"github.com/bull/support-router/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "support-cli",
	Short: "Customer support answer-routing agent",
	Long: `Answers customer questions from an FAQ or from customer reviews, and
escalates everything else to human support by email.

Environment variables:
  OPENAI_API_KEY    OpenAI API key (required)
  FAQ_PATH          FAQ markdown file (default: faq.md)
  REVIEWS_PATH      Reviews markdown file (default: reviews.md)
  INDEX_BACKEND     memory or qdrant (default: memory)
  EMAIL_USERNAME    SMTP username for escalations
  EMAIL_PASSWORD    SMTP password for escalations
  ASSISTANCE_EMAIL  Human support address`,
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  "Reads one question per line. Type quit, exit or bye to leave.",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load the corpus, build the review index, and report statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	askCmd.Flags().Bool("json", false, "print the full response as JSON")
	rootCmd.AddCommand(chatCmd, askCmd, indexCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the agent for one command.
func setup(cmd *cobra.Command) (context.Context, *app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("failed to start support agent: %w", err)
	}

	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close vector store", "error", err)
		}
		cancel()
	}
	return ctx, a, cleanup, nil
}
