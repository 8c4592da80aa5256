package commands

// Builds the daily demand charts for one payments file.
// The input comes from the native file dialog unless --input is given.
// Charts are optionally sent to Telegram when a bot token and chat id are configured.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demand-graphs/internal/clients_api/telegram"
	"demand-graphs/internal/config"
	"demand-graphs/internal/features/charts"
	"demand-graphs/internal/features/demand"
	logging "demand-graphs/internal/infra/log"
	"demand-graphs/internal/infra/picker"
	"demand-graphs/internal/payments"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	var source picker.Source = picker.Dialog{
		Title:     "Select payments_captured" + cfg.Input.Extension,
		Extension: cfg.Input.Extension,
	}
	if cfg.Input.Path != "" {
		source = picker.Static{Path: cfg.Input.Path}
	}

	var publisher demand.Publisher
	if cfg.Telegram.Enabled() {
		publisher = newTelegramPublisher(cfg.Telegram)
	}

	_, err = run(ctx, cfg, source, publisher, cmd.OutOrStdout())
	return err
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString(config.FlagConfig)
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return nil, err
	}

	if err := logging.Init(logging.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: true}); err != nil {
		return nil, err
	}
	logging.SetRunID(logging.NewRunID())
	return cfg, nil
}

func newTelegramPublisher(tc config.TelegramConfig) demand.Publisher {
	chatID, err := telegram.ParseChatID(tc.ChatID)
	if err != nil {
		logging.LogWarn("Telegram delivery disabled", zap.Error(err))
		return nil
	}
	pub, err := telegram.NewBotPublisher(tc.BotToken, telegram.Options{
		ChatID:        chatID,
		RatePerSecond: tc.RatePerSecond,
		MaxRetries:    tc.MaxRetries,
	})
	if err != nil {
		logging.LogWarn("Failed to initialize Telegram bot (continuing without it)", zap.Error(err))
		return nil
	}
	return pub
}

// run picks the input, loads it once and renders every distinct date.
// A cancelled pick prints one line and is not an error.
func run(ctx context.Context, cfg *config.Config, source picker.Source, publisher demand.Publisher, out io.Writer) (demand.Summary, error) {
	path, err := source.Pick(ctx)
	if errors.Is(err, picker.ErrCancelled) {
		fmt.Fprintln(out, "No file selected.")
		logging.LogInfo("No input file selected")
		return demand.Summary{}, nil
	}
	if err != nil {
		return demand.Summary{}, err
	}

	start := time.Now()
	loader := payments.NewLoader(payments.Options{
		Sheet:       cfg.Input.Sheet,
		DateLayouts: cfg.Input.DateLayouts,
	})
	table, err := loader.Load(path)
	if err != nil {
		logging.LogError("Failed to load payments file", zap.String("path", path), zap.Error(err))
		return demand.Summary{}, err
	}

	chart, err := charts.NewDemandChart(charts.Options{
		Width:        cfg.Chart.Width,
		Height:       cfg.Chart.Height,
		FontPath:     cfg.Chart.FontPath,
		BoldFontPath: cfg.Chart.BoldFontPath,
	})
	if err != nil {
		return demand.Summary{}, err
	}

	renderer := demand.NewRenderer(chart, demand.Options{
		OutputDir: cfg.Output.Dir,
		Out:       out,
		Publisher: publisher,
	})

	summary, err := renderer.RenderAll(ctx, table)
	if err != nil {
		return summary, err
	}

	logging.LogSuccess(fmt.Sprintf("Processed %s: %d saved, %d skipped, %d without data",
		path, summary.Saved, summary.Skipped, summary.NoData),
		zap.Int("published", summary.Published),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return summary, nil
}
