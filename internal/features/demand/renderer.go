package demand

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"demand-graphs/internal/infra/fs"
	logging "demand-graphs/internal/infra/log"
	"demand-graphs/internal/payments"
	"demand-graphs/internal/report"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

// DefaultOutputDir is where charts go when no directory is configured.
const DefaultOutputDir = "customer-demand-graphs"

// ChartRenderer encodes one daily report as an image.
type ChartRenderer interface {
	Render(w io.Writer, d *report.Daily) error
}

// Publisher delivers a saved chart somewhere else. Optional.
type Publisher interface {
	Publish(ctx context.Context, path, caption string) error
}

// Outcome says what Render did for one date.
type Outcome int

const (
	Saved Outcome = iota
	SkippedExisting
	NoData
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case SkippedExisting:
		return "skipped"
	case NoData:
		return "no_data"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Summary counts the outcomes of a RenderAll call.
type Summary struct {
	Saved     int
	Skipped   int
	NoData    int
	Published int
	Files     []string // charts written by this run
}

// Options configures a Renderer.
type Options struct {
	OutputDir string    // empty selects DefaultOutputDir
	Out       io.Writer // status lines, nil selects stdout
	Publisher Publisher
}

// Renderer writes one chart per calendar date into its output directory.
// A chart that already exists is never rewritten, so reruns only fill gaps.
type Renderer struct {
	outputDir string
	chart     ChartRenderer
	out       io.Writer
	publisher Publisher
	prepared  bool
}

// NewRenderer returns a Renderer drawing with chart.
func NewRenderer(chart ChartRenderer, opts Options) *Renderer {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Renderer{
		outputDir: opts.OutputDir,
		chart:     chart,
		out:       opts.Out,
		publisher: opts.Publisher,
	}
}

// FileName is the chart name for date: day and month without zero padding,
// e.g. 1.2.2024_demand.png.
func FileName(date civil.Date) string {
	return fmt.Sprintf("%d.%d.%d_demand.png", date.Day, int(date.Month), date.Year)
}

// OutputPath is where the chart for date is written.
func (r *Renderer) OutputPath(date civil.Date) string {
	return filepath.Join(r.outputDir, FileName(date))
}

func (r *Renderer) prepare() error {
	if r.prepared {
		return nil
	}
	if err := fs.EnsureDir(r.outputDir); err != nil {
		return err
	}
	r.prepared = true
	return nil
}

// Render produces the chart for date unless it already exists or the date has
// no usable rows. Render and write failures are returned; publish failures
// are only logged.
func (r *Renderer) Render(ctx context.Context, table *payments.Table, date civil.Date) (Outcome, error) {
	outcome, daily, err := r.render(table, date)
	if err == nil && outcome == Saved {
		r.publish(ctx, r.OutputPath(date), daily)
	}
	return outcome, err
}

func (r *Renderer) render(table *payments.Table, date civil.Date) (Outcome, *report.Daily, error) {
	path := r.OutputPath(date)

	exists, err := fs.Exists(path)
	if err != nil {
		return 0, nil, err
	}
	if exists {
		fmt.Fprintf(r.out, "Skipping %s (already exists)\n", path)
		logging.LogInfo("Chart already exists", zap.String("file", path))
		return SkippedExisting, nil, nil
	}

	records := table.OnDate(date)
	if len(records) == 0 {
		fmt.Fprintf(r.out, "No data for %s\n", date)
		return NoData, nil, nil
	}

	daily := report.Build(date, records)
	if daily.Excluded > 0 {
		logging.LogWarn("Rows without a capturing date-time or amount excluded from sums",
			zap.String("date", date.String()),
			zap.Int("excluded", daily.Excluded),
			zap.Int("rows", len(records)))
	}
	if daily.Empty() {
		fmt.Fprintf(r.out, "No data for %s\n", date)
		return NoData, nil, nil
	}

	if err := r.prepare(); err != nil {
		return 0, nil, err
	}

	start := time.Now()
	size, err := fs.WriteFileAtomic(path, func(w io.Writer) error {
		return r.chart.Render(w, daily)
	})
	if err != nil {
		logging.LogError("Failed to save chart", zap.String("file", path), zap.Error(err))
		return 0, nil, fmt.Errorf("failed to save chart for %s: %w", date, err)
	}

	fmt.Fprintf(r.out, "Saved %s\n", path)
	logging.LogInfo("Chart saved",
		zap.String("file", path),
		zap.Int64("file_size", size),
		zap.Int("bars", len(daily.Hourly)),
		zap.Int("transactions", daily.Transactions),
		zap.String("total", daily.Total.StringFixed(2)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return Saved, daily, nil
}

// RenderAll renders every distinct creation date of table in ascending order.
// It stops at the first failure or when ctx is cancelled between dates.
func (r *Renderer) RenderAll(ctx context.Context, table *payments.Table) (Summary, error) {
	var summary Summary
	if err := r.prepare(); err != nil {
		return summary, err
	}

	for _, date := range table.Dates() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, daily, err := r.render(table, date)
		if err != nil {
			return summary, err
		}

		switch outcome {
		case SkippedExisting:
			summary.Skipped++
		case NoData:
			summary.NoData++
		case Saved:
			summary.Saved++
			path := r.OutputPath(date)
			summary.Files = append(summary.Files, path)
			if r.publish(ctx, path, daily) {
				summary.Published++
			}
		}
	}
	return summary, nil
}

func (r *Renderer) publish(ctx context.Context, path string, daily *report.Daily) bool {
	if r.publisher == nil {
		return false
	}
	caption := fmt.Sprintf("Payments captured on %s | %s", report.DisplayDate(daily.Date), daily.TotalLabel())
	if err := r.publisher.Publish(ctx, path, caption); err != nil {
		logging.LogError("Failed to publish chart", zap.String("file", path), zap.Error(err))
		return false
	}
	logging.LogSuccess("Chart published", zap.String("file", path))
	return true
}
