package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/csv2beancount/internal/buildinfo"
	"github.com/cleared-dev/csv2beancount/internal/config"
	"github.com/cleared-dev/csv2beancount/internal/convert"
	"github.com/cleared-dev/csv2beancount/internal/importer"
	"github.com/cleared-dev/csv2beancount/internal/logging"
)

type globalOptions struct {
	verbose  bool
	logLevel string
}

func (o *globalOptions) logger() (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = o.logLevel
	if o.verbose {
		cfg.Level = "debug"
	}
	return logging.New(cfg)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without a subcommand, it converts a CSV file to beancount.
func NewRootCommand() *cobra.Command {
	var global globalOptions
	var csvPath, yamlPath, outputPath string

	rootCmd := &cobra.Command{
		Use:     buildinfo.Name + " -c <csv> -y <yaml>",
		Short:   "Convert transactions in CSV to beancount format",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := global.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return runConvert(cmd.OutOrStdout(), log, csvPath, yamlPath, outputPath)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "log every converted row")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&csvPath, "csv", "c", "", "input CSV (or .xlsx) file (required)")
	rootCmd.Flags().StringVarP(&yamlPath, "yaml", "y", "", "YAML configuration file (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the ledger to this file instead of stdout")
	_ = rootCmd.MarkFlagRequired("csv")
	_ = rootCmd.MarkFlagRequired("yaml")

	rootCmd.AddCommand(newCheckCommand(&global))

	return rootCmd
}

func runConvert(stdout io.Writer, log *zap.Logger, csvPath, yamlPath, outputPath string) (err error) {
	cfg, err := config.Load(yamlPath)
	if err != nil {
		return err
	}

	out := stdout
	if outputPath != "" {
		f, createErr := os.Create(outputPath)
		if createErr != nil {
			return fmt.Errorf("creating output %s: %w", outputPath, createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output %s: %w", outputPath, cerr)
			}
		}()
		out = f
	}

	// Flush on failure too so rows converted before the bad one are kept.
	bw := bufio.NewWriter(out)
	_, runErr := convert.New(cfg, log).ConvertFile(csvPath, importer.DefaultRegistry(), bw)
	if ferr := bw.Flush(); ferr != nil && runErr == nil {
		runErr = fmt.Errorf("writing output: %w", ferr)
	}
	return runErr
}
