package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/logging"
	"github.com/matsen/litweb/internal/pipeline"
	"github.com/matsen/litweb/internal/watch"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchInput, "input", "i", "", "RDF export file (auto-detected when omitted)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output directory (default \"output\")")
	watchCmd.Flags().StringVar(&watchTemplateDir, "template-dir", "", "Custom template directory")
	watchCmd.Flags().BoolVar(&watchDataOnly, "data-only", false, "Generate JSON data files only, no site")
	watchCmd.Flags().BoolVar(&watchCombined, "combined-json", false, "Write one combined data.json instead of three files")
}

var (
	watchInput       string
	watchOutput      string
	watchTemplateDir string
	watchDataOnly    bool
	watchCombined    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever the RDF export changes",
	Long: `Run an initial build, then watch the export file and rebuild on
every change (debounced). Stops on interrupt.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Watch-mode builds are always incremental so touch-without-change
	// events do not trigger full rebuilds.
	cfg := resolveBuildConfig(watchInput, watchOutput, watchTemplateDir,
		watchDataOnly, watchCombined, false, false, true)

	orch := pipeline.New(cfg)
	logger := logging.Component(log.Logger, "watch")

	rebuild := func() {
		result, err := orch.Build(progressPrinter())
		if err != nil {
			logger.Error().Err(err).Msg("rebuild failed")
			return
		}
		if !cfg.DataOnly {
			rebuildSearchDB(cfg.OutputDir)
		}
		logger.Info().
			Int("items", result.ItemCount).
			Int("collections", result.CollectionCount).
			Dur("duration", result.Duration).
			Msg("rebuild complete")
	}

	rebuild()

	watcher, err := watch.New(cfg.InputFile, rebuild)
	if err != nil {
		exitWithError(ExitError, "starting watcher: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if humanOutput {
		fmt.Printf("Watching %s (ctrl-c to stop)\n", cfg.InputFile)
	}
	logger.Info().Str("input", cfg.InputFile).Msg("watching for changes")

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		exitWithError(ExitError, "watcher: %v", err)
	}
	return nil
}
