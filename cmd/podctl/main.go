package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"podcaster/internal/adapter/repo"
	"podcaster/internal/db"
	"podcaster/internal/domain"
	"podcaster/internal/entitlement"
	"podcaster/internal/events"
	"podcaster/internal/infra"
	"podcaster/internal/infra/credentials"
	"podcaster/internal/middleware"
	"podcaster/internal/plans"
	"podcaster/internal/retry"
)

var (
	catalogPath string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:           "podctl",
	Short:         "Podcaster operator CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", os.Getenv("PLAN_CATALOG_PATH"), "plan catalog YAML (defaults to the built-in catalog)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	rootCmd.AddCommand(plansCmd())
	rootCmd.AddCommand(uploadCheckCmd())
	rootCmd.AddCommand(openAIKeyCmd())
	rootCmd.AddCommand(retryCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadCatalog() (*plans.Catalog, error) {
	return plans.Load(catalogPath)
}

func plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show the plan catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			if jsonOutput {
				tiers := make([]plans.Tier, 0, 3)
				for _, name := range catalog.Tiers() {
					tiers = append(tiers, catalog.Tier(name))
				}
				return printJSON(tiers)
			}
			renderPlans(os.Stdout, catalog)
			return nil
		},
	}
}

func uploadCheckCmd() *cobra.Command {
	var (
		planName string
		size     int64
		duration int64
		count    int
	)
	cmd := &cobra.Command{
		Use:   "upload-check",
		Short: "Check an upload against a plan's limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			tier, err := domain.ParsePlan(planName)
			if err != nil {
				return fmt.Errorf("--plan: %w", err)
			}
			var durationPtr *int64
			if cmd.Flags().Changed("duration") {
				durationPtr = &duration
			}
			result := entitlement.NewResolver(catalog, nil).ValidateUpload(tier, size, durationPtr, count)
			if jsonOutput {
				return printJSON(result)
			}
			fmt.Println(describeUpload(catalog, tier, result))
			return nil
		},
	}
	cmd.Flags().StringVar(&planName, "plan", string(domain.PlanFree), "plan to check against")
	cmd.Flags().Int64Var(&size, "size", 0, "file size in bytes")
	cmd.Flags().Int64Var(&duration, "duration", 0, "duration in seconds")
	cmd.Flags().IntVar(&count, "count", 0, "current project count")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}

func openAIKeyCmd() *cobra.Command {
	parent := &cobra.Command{Use: "openai-key", Short: "Manage the stored OpenAI API key"}
	var key, setBy string
	set := &cobra.Command{
		Use:   "set",
		Short: "Persist the OpenAI API key used by workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			key = strings.TrimSpace(key)
			if key == "" {
				key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
			}
			if key == "" {
				return errors.New("OpenAI API key is required via --key or OPENAI_API_KEY")
			}
			return withRunner(cmd.Context(), func(ctx context.Context, runner *infra.SQLRunner, _ infra.Logger) error {
				if err := credentials.NewStore(runner).SetOpenAIAPIKey(ctx, key, setBy); err != nil {
					return fmt.Errorf("persist openai api key: %w", err)
				}
				fmt.Println("openai api key stored")
				return nil
			})
		},
	}
	set.Flags().StringVar(&key, "key", "", "API key (falls back to OPENAI_API_KEY)")
	set.Flags().StringVar(&setBy, "set-by", "podctl", "operator recorded with the key")
	parent.AddCommand(set)
	return parent
}

func retryCmd() *cobra.Command {
	var projectID, jobName, userID, planName string
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Queue regeneration of one job as the given user",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			tier, err := domain.ParsePlan(planName)
			if err != nil {
				return fmt.Errorf("--plan: %w", err)
			}
			job, err := domain.ParseJob(jobName)
			if err != nil {
				return fmt.Errorf("--job: %w", err)
			}
			caller := &middleware.Principal{ID: userID, Plan: tier, Features: catalog.FeaturesFor(tier)}
			return withRunner(cmd.Context(), func(ctx context.Context, runner *infra.SQLRunner, logger infra.Logger) error {
				projects := repo.NewProjectRepository(runner)
				outbox := events.NewOutbox(runner, events.Options{})
				svc := retry.NewService(entitlement.NewResolver(catalog, projects), projects, outbox, logger)
				result, err := svc.RetryJob(ctx, caller, projectID, job)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(result)
				}
				fmt.Printf("queued %s for project %s (%s -> %s)\n", job, projectID, displayName(catalog, result.OriginalPlan), displayName(catalog, result.CurrentPlan))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "project id")
	cmd.Flags().StringVar(&jobName, "job", "", "job to regenerate")
	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	cmd.Flags().StringVar(&planName, "plan", string(domain.PlanFree), "owner's current plan")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			pool, err := infra.NewDBPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Println("schema applied")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var userID, planName string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := domain.ParsePlan(planName)
			if err != nil {
				return fmt.Errorf("--plan: %w", err)
			}
			token, err := middleware.SignJWT(os.Getenv("JWT_SECRET"), middleware.NewTokenClaims(userID, tier, ttl))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "subject user id")
	cmd.Flags().StringVar(&planName, "plan", string(domain.PlanFree), "plan claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func withRunner(ctx context.Context, fn func(ctx context.Context, runner *infra.SQLRunner, logger infra.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel).With().Str("cmd", "podctl").Logger()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, infra.NewSQLRunner(pool, logger), logger)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
