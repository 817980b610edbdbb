package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theredplanetsings/tradelab/internal/backtest"
)

// Writer emits run artifacts under <outputDir>/<date>/<runID>/. Every run
// gets its own directory so repeated runs on one day never clobber each
// other.
type Writer struct {
	outputDir string
	runID     string
}

// NewWriter creates an artifact writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	runID := uuid.NewString()[:8]
	return &Writer{
		outputDir: filepath.Join(outputDir, time.Now().Format("2006-01-02"), runID),
		runID:     runID,
	}
}

// RunID returns the short run identifier baked into the output path.
func (w *Writer) RunID() string { return w.runID }

// OutputDir returns the full output directory path.
func (w *Writer) OutputDir() string { return w.outputDir }

// WriteBacktest writes the three artifacts of one evaluation: bar rows as
// JSONL, the summary as JSON, and a human-readable markdown report.
func (w *Writer) WriteBacktest(res *backtest.Result) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := w.writeRows(res); err != nil {
		return err
	}
	if err := w.writeSummary(res); err != nil {
		return err
	}
	return w.writeMarkdown(res)
}

// writeRows streams one JSON object per evaluated bar.
func (w *Writer) writeRows(res *backtest.Result) error {
	file, err := os.Create(filepath.Join(w.outputDir, "backtest.jsonl"))
	if err != nil {
		return fmt.Errorf("create rows file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for i := range res.Rows {
		if err := enc.Encode(&res.Rows[i]); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	return nil
}

// writeSummary writes the result without its row detail; the rows live in
// the JSONL file.
func (w *Writer) writeSummary(res *backtest.Result) error {
	file, err := os.Create(filepath.Join(w.outputDir, "result.json"))
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	summary := *res
	summary.Rows = nil

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

func (w *Writer) writeMarkdown(res *backtest.Result) error {
	file, err := os.Create(filepath.Join(w.outputDir, "report.md"))
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(w.markdownReport(res)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (w *Writer) markdownReport(res *backtest.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Backtest Report: %s\n\n", res.Symbol)
	fmt.Fprintf(&b, "**Run**: %s\n", w.runID)
	fmt.Fprintf(&b, "**Strategy**: %s\n", res.Strategy)
	fmt.Fprintf(&b, "**Period**: %s to %s (%d bars)\n\n",
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"), res.Bars)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Strategy multiple**: %.6f\n", res.Performance)
	fmt.Fprintf(&b, "- **Buy & hold multiple**: %.6f\n", res.BuyHoldReturn+1)
	fmt.Fprintf(&b, "- **Outperformance**: %+.6f\n", res.Outperformance)
	fmt.Fprintf(&b, "- **Total return**: %+.2f%%\n", res.TotalReturn*100)
	fmt.Fprintf(&b, "- **Annual volatility**: %.2f%%\n", res.AnnualVolatility*100)
	fmt.Fprintf(&b, "- **Trades**: %d\n", res.Trades)
	fmt.Fprintf(&b, "- **Long/short bars**: %d/%d\n\n", res.LongBars, res.ShortBars)

	b.WriteString("## Recent Signals\n\n")
	b.WriteString("| Date | Price | Signal | Strategy |\n")
	b.WriteString("|------|------:|--------|---------:|\n")
	rows := res.Rows
	if len(rows) > 10 {
		rows = rows[len(rows)-10:]
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %.2f | %s | %.6f |\n",
			row.Time.Format("2006-01-02"), row.Price, PositionLabel(row.Position), row.CumStrategy)
	}
	b.WriteString("\n")

	b.WriteString("## Artifacts\n\n")
	fmt.Fprintf(&b, "- **Rows JSONL**: `%s`\n", filepath.Join(w.outputDir, "backtest.jsonl"))
	fmt.Fprintf(&b, "- **Summary JSON**: `%s`\n", filepath.Join(w.outputDir, "result.json"))
	fmt.Fprintf(&b, "- **Report**: `%s`\n", filepath.Join(w.outputDir, "report.md"))
	return b.String()
}
