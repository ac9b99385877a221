package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision this host",
	Long: `Up checks every step of the selected phase and applies the ones
whose desired state is not yet met.

The phase follows the effective privilege level: root gets system
hardening, anyone else gets the developer environment. Use --phase to
override, and --dry-run to see what would happen without changing
anything.`,
	RunE: runUp,
}

var upDryRun bool

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().BoolVar(&upDryRun, "dry-run", false, "Show what would be done without making changes")
}

func runUp(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, err := resolvePhase()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	groundwork := app.New(os.Stdout, cfg, verbose)

	plan, err := groundwork.Plan(ctx, p)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	groundwork.PrintPlan(plan)

	if !plan.HasChanges() {
		return nil
	}

	if upDryRun {
		fmt.Println("\nDry run - no changes will be made.")
	} else {
		fmt.Println("\nApplying changes...")
	}

	results, err := groundwork.Apply(ctx, plan, upDryRun)
	groundwork.PrintResults(results)

	return err
}
