// Package handlers implements the CLI subcommands.
package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"daily5/internal/assemble"
	"daily5/internal/config"
	"daily5/internal/core"
	"daily5/internal/dedupe"
	"daily5/internal/email"
	"daily5/internal/fetchers"
	"daily5/internal/github"
	"daily5/internal/llm"
	"daily5/internal/logger"
	"daily5/internal/store"
	"daily5/internal/validate"
	"daily5/internal/verify"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the digest assembly and delivery command.
func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Assemble and deliver the Daily 5 digest",
		Long: `Fetch content from every enabled source, score it against each
user's interests, validate the generated digest, and deliver it by email.

Example:
  daily5 run
  daily5 run --user dev@example.com
  daily5 run --dry-run`,
		Run: func(cmd *cobra.Command, args []string) {
			cfgPath, _ := cmd.Flags().GetString("config")
			userEmail, _ := cmd.Flags().GetString("user")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if err := runDigest(cmd.Context(), cfgPath, userEmail, dryRun); err != nil {
				logger.Error("Digest run failed", err)
				os.Exit(1)
			}
		},
	}

	runCmd.Flags().String("user", "", "Deliver only to this configured user email")
	runCmd.Flags().Bool("dry-run", false, "Render digests to stdout without sending or recording")
	return runCmd
}

func runDigest(ctx context.Context, cfgPath, userEmail string, dryRun bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.SetLevel(cfg.App.LogLevel)

	users := cfg.Users
	if userEmail != "" {
		user, err := cfg.FindUser(userEmail)
		if err != nil {
			return err
		}
		users = []config.User{user}
	}
	if len(users) == 0 {
		return fmt.Errorf("no users configured, add a users section to the config file")
	}

	assembler, cleanup, err := buildAssembler(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sender := email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, 0)

	delivered := 0
	for _, user := range users {
		profile := user.Profile()
		logger.Info("Assembling digest", "user", profile.Email)

		batch, err := assembler.Assemble(ctx, profile)
		if err != nil {
			logger.Error("Assembly failed", err, "user", profile.Email)
			continue
		}
		if len(batch.Items) == 0 {
			logger.Warn("Skipping delivery", "user", profile.Email, "reason", batch.Reason)
			continue
		}
		logger.Info("Digest assembled",
			"user", profile.Email,
			"items", len(batch.Items),
			"fetched", batch.Stats.Fetched,
			"fallback", batch.Stats.UsedFallback,
			"avg_confidence", batch.Validation.Stats.AvgConfidence)

		if err := deliver(ctx, sender, assembler, profile, batch.Items, dryRun); err != nil {
			logger.Error("Delivery failed", err, "user", profile.Email)
			continue
		}
		delivered++
	}

	logger.Info("Run complete", "delivered", delivered, "users", len(users))
	return nil
}

func deliver(ctx context.Context, sender email.Sender, assembler *assemble.Assembler, profile core.UserProfile, items []core.GeneratedItem, dryRun bool) error {
	subject, html, err := email.Render(email.DefaultTemplate(), profile, items, time.Now())
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("--- %s <%s> ---\n%s\n", subject, profile.Email, html)
		return nil
	}

	if err := sender.Send(ctx, profile.Email, subject, html); err != nil {
		return err
	}
	// Record only after the send succeeded, so failed deliveries stay
	// eligible for the next run.
	return assembler.ConfirmDelivery(profile, items)
}

// buildAssembler wires every pipeline dependency from configuration.
func buildAssembler(ctx context.Context, cfg *config.Config) (*assemble.Assembler, func(), error) {
	db, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	rules, err := validate.LoadRuleset(cfg.Validation.RulesetPath)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load validation ruleset: %w", err)
	}

	var enricher assemble.Enricher
	if cfg.Gemini.APIKey != "" {
		client, err := llm.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		enricher = client
		prev := cleanup
		cleanup = func() { _ = client.Close(); prev() }
	} else {
		logger.Warn("No Gemini API key configured, digests use fallback templates only")
	}

	assembler := assemble.NewAssembler(
		fetchers.Enabled(cfg.Sources),
		dedupe.NewManager(db, cfg.Dedup.Retention),
		validate.NewValidator(rules),
		verify.NewVerifier(cfg.Sources.Timeout),
		enricher,
		github.NewClient(cfg.GitHub.Token, cfg.GitHub.Timeout),
		assemble.Config{
			Budget:         cfg.Assembly.Budget,
			MaxAge:         cfg.Scoring.MaxAge,
			TopK:           cfg.Scoring.TopK,
			EnrichRetries:  cfg.Assembly.EnrichRetries,
			MaxConcurrency: cfg.Assembly.MaxConcurrency,
			VerifyURLs:     cfg.Validation.VerifyURLs,
			Strict:         cfg.Validation.Strict,
		},
	)
	return assembler, cleanup, nil
}
