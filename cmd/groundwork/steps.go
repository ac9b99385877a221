package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/adapters/command"
	"github.com/felixgeelhaar/groundwork/internal/adapters/filesystem"
	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List steps in execution order",
	Long: `Steps prints every step of the selected phase in the order it
would run, without touching the system.`,
	RunE: runSteps,
}

var stepsAll bool

func init() {
	rootCmd.AddCommand(stepsCmd)

	stepsCmd.Flags().BoolVar(&stepsAll, "all", false, "List steps of both phases")
}

func runSteps(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	cat := app.BuildCatalog(cfg, filesystem.NewRealFileSystem(), command.NewRealRunner())
	out := cmd.OutOrStdout()

	if stepsAll {
		for _, entry := range cat.Entries() {
			fmt.Fprintf(out, "%-6s %-34s %s\n",
				entry.Phase().String(), entry.Step().ID().String(), entry.Step().Explain().Summary())
		}
		return nil
	}

	p, err := resolvePhase()
	if err != nil {
		return err
	}
	for _, s := range cat.ForPhase(p) {
		fmt.Fprintf(out, "%-34s %s\n", s.ID().String(), s.Explain().Summary())
	}
	return nil
}
