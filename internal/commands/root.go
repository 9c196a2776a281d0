// Package commands wires the statement-ledger CLI.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/engine"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/logging"
)

// runtime is the state shared by subcommands once flags and environment
// have been merged.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "statement-ledger",
		Short: "Recover transaction ledgers from bank statement PDFs",
		Long: `Reads the text layer of bank or card statement PDFs, rebuilds the
visual lines of each page and turns every line carrying a date and an
amount into a ledger entry.

Scanned statements need an OCR pass first; no bank templates are used.`,
		Version: api.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			rt.cfg = cfg
			rt.logger = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(newConvertCommand(rt))
	rootCmd.AddCommand(newServeCommand(rt))

	return rootCmd
}

// newEngine builds the extraction engine from the merged configuration.
func (rt *runtime) newEngine() *engine.Engine {
	src := &extractor.PDFSource{
		Workers:       rt.cfg.Extraction.PageWorkers,
		WordGapFactor: rt.cfg.Extraction.WordGapFactor,
	}
	return engine.New(src,
		engine.WithLineTolerance(rt.cfg.Extraction.LineTolerance),
		engine.WithLogger(rt.logger),
	)
}
