package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/canonpath/canonpath/internal/version"
	"github.com/canonpath/canonpath/pkg/canon"
	"github.com/canonpath/canonpath/pkg/config"
	"github.com/canonpath/canonpath/pkg/filesystem"
	"github.com/canonpath/canonpath/pkg/logging"
)

var (
	verbosity int
	exact     bool
	noColor   bool

	rootCmd = &cobra.Command{
		Use:   "canonpath PATH...",
		Short: "Resolve paths to their canonical absolute form",
		Long: `canonpath resolves each PATH to its canonical absolute form: all "."
and ".." components are removed and every symbolic link is followed.

By default a missing final component is tolerated and returned literally,
which is useful for computing the canonical location of a file about to be
created. With --exact the final component must exist.`,
		Args: cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Flags win over config file defaults
			if !cmd.Flags().Changed("verbose") {
				verbosity = cfg.Logging.Verbosity
			}
			if !cmd.Flags().Changed("exact") {
				exact = cfg.Resolve.Exact
			}

			logging.SetupLogger(verbosity, noColor)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE:          runResolve,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&exact, "exact", "e", false, "Require the final path component to exist")

	initTemplateFormatting()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(manCmd)
}

// runResolve canonicalizes each argument and prints one result per line.
// The first failing path aborts the run.
func runResolve(cmd *cobra.Command, args []string) error {
	fsys := filesystem.NewOS()

	for _, path := range args {
		resolved, err := canon.Canonicalize(fsys, path, exact)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Resolution failed")
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resolved)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for canonpath`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("canonpath version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(canonpath completion bash)

Zsh:
  $ canonpath completion zsh > "${fpath[1]}/_canonpath"

Fish:
  $ canonpath completion fish | source

PowerShell:
  PS> canonpath completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man page",
	Long:  `Generate man page for canonpath`,
	RunE: func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{
			Title:   "CANONPATH",
			Section: "1",
		}
		return doc.GenManTree(rootCmd, header, "/tmp")
	},
}
