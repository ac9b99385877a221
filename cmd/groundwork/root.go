package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/phase"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	phaseFlag string
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "An idempotent server bootstrap tool",
	Long: `Groundwork provisions a fresh Linux server in two phases.

Run as root it hardens the system: firewall, intrusion prevention,
an unprivileged operator account, SSH lockdown, automatic updates.
Run as that operator it sets up the developer environment: language
runtimes, editor, terminal multiplexer, shell configuration.

Every step checks current state first and acts only when needed, so
re-running is always safe and a converged host reports no changes.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: groundwork.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&phaseFlag, "phase", "", "phase override (root, user); default follows privilege level")

	registerFlagCompletions()
}

// resolvePhase maps the --phase override or the effective uid to a phase.
func resolvePhase() (phase.Phase, error) {
	if phaseFlag != "" {
		return phase.Parse(phaseFlag)
	}
	return phase.Detect(os.Geteuid()), nil
}

// configPath returns the --config value or the default.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath
}

// printError prints an error message to stderr.
func printError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("phase", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"root\tPrivileged system hardening",
			"user\tUnprivileged developer environment",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}
