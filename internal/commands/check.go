package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/csv2beancount/internal/config"
)

func newCheckCommand(global *globalOptions) *cobra.Command {
	var yamlPath string

	cmd := &cobra.Command{
		Use:   "check -y <yaml>",
		Short: "Validate a configuration file without converting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := global.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := config.Load(yamlPath)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), cfg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&yamlPath, "yaml", "y", "", "YAML configuration file (required)")
	_ = cmd.MarkFlagRequired("yaml")

	return cmd
}

func printSummary(w io.Writer, cfg *config.Config) {
	s := cfg.Settings
	fmt.Fprintf(w, "currency:           %s\n", s.Currency)
	fmt.Fprintf(w, "processing account: %s\n", s.ProcessingAccount)
	fmt.Fprintf(w, "default account:    %s\n", s.DefaultAccount)
	fmt.Fprintf(w, "delimiter:          %q\n", s.Delimiter)
	fmt.Fprintf(w, "skip:               %d\n", s.Skip)
	fmt.Fprintf(w, "date format:        %s\n", s.DateFormat)
	fmt.Fprintf(w, "toggle sign:        %t\n", s.ToggleSign)
	fmt.Fprintf(w, "columns:            date=%d description=%d amount_in=%d amount_out=%d\n",
		s.DateColumn, s.DescriptionColumn, s.AmountInColumn, s.AmountOutColumn)
	fmt.Fprintf(w, "rules:              %d\n", len(cfg.Rules))

	accounts := make(map[string]int)
	for _, r := range cfg.Rules {
		if r.Account != "" {
			accounts[r.Account]++
		}
	}
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s (%d)\n", name, accounts[name])
	}
}
