package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what 'up' would change",
	Long: `Plan evaluates every step's check against the live system and
reports which steps would be applied, without executing any actions.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, err := resolvePhase()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	groundwork := app.New(cmd.OutOrStdout(), cfg, verbose)

	plan, err := groundwork.Plan(ctx, p)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	groundwork.PrintPlan(plan)
	return nil
}
