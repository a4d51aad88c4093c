// Command browser loads one document and prints its display list.
//
// Usage:
//
//	browser [flags] [locator]
//
// Without a locator the configured start page is opened
// (~/Documents/webbrowser/testfile unless BROWSER_START_PAGE says
// otherwise). The display list goes to stdout as text, or as one JSON
// frame with -json for an external renderer. Logs go to stderr.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webview/internal/browser"
	"github.com/GriffinCanCode/webview/internal/config"
	"github.com/GriffinCanCode/webview/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webview/internal/layout"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "browser: %v\n", err)
		os.Exit(1)
	}
}

// Frame is the JSON form of one rendered window.
type Frame struct {
	Locator  string            `json:"locator"`
	Title    string            `json:"title,omitempty"`
	Error    string            `json:"error,omitempty"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	Offset   float64           `json:"offset"`
	Document float64           `json:"document_height"`
	Runs     []layout.GlyphRun `json:"runs"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("browser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	width := fs.Int("width", cfg.Viewport.Width, "Viewport width in pixels")
	height := fs.Int("height", cfg.Viewport.Height, "Viewport height in pixels")
	scroll := fs.Float64("scroll", 0, "Scroll offset in pixels")
	asJSON := fs.Bool("json", false, "Print the display list as a JSON frame")
	showMetrics := fs.Bool("metrics", false, "Print fetch metrics to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Viewport.Width = *width
	cfg.Viewport.Height = *height
	if err := cfg.Validate(); err != nil {
		return err
	}

	target := cfg.StartPage
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}

	logger := logging.NewOrNop(loggingConfig(cfg))
	defer func() { _ = logger.Sync() }()

	metrics := monitoring.NewMetrics()
	session := browser.NewFromConfig(cfg, logger, metrics)
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("closing connections", zap.Error(err))
		}
	}()

	page := session.Load(ctx, target)
	session.ScrollTo(*scroll)

	frame := Frame{
		Locator:  page.Ref.String(),
		Title:    page.Title,
		Width:    float64(cfg.Viewport.Width),
		Height:   float64(cfg.Viewport.Height),
		Offset:   session.Offset(),
		Document: session.Result().Height,
		Runs:     session.DisplayList(),
	}
	if page.Err != nil {
		frame.Error = page.Err.Error()
	}

	if *asJSON {
		err = writeJSON(stdout, frame)
	} else {
		err = writeText(stdout, frame)
	}
	if err != nil {
		return err
	}

	if *showMetrics {
		return writeMetrics(stderr, metrics)
	}
	return nil
}

// loggingConfig applies the configured level and mode over the logging
// defaults, which keep stdout free for the display list.
func loggingConfig(cfg *config.Config) logging.Config {
	lc := logging.DefaultConfig()
	if cfg.Logging.Level != "" {
		lc.Level = cfg.Logging.Level
	}
	lc.Development = cfg.Logging.Development
	return lc
}

func writeJSON(w io.Writer, frame Frame) error {
	if frame.Runs == nil {
		frame.Runs = []layout.GlyphRun{}
	}
	data, err := sonic.MarshalIndent(frame, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeText(w io.Writer, frame Frame) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", frame.Locator)
	if frame.Title != "" {
		fmt.Fprintf(&b, "# title: %s\n", frame.Title)
	}
	if frame.Error != "" {
		fmt.Fprintf(&b, "# blank page: %s\n", frame.Error)
	}
	fmt.Fprintf(&b, "# viewport %gx%g, offset %g of %g\n", frame.Width, frame.Height, frame.Offset, frame.Document)
	for _, r := range frame.Runs {
		fmt.Fprintf(&b, "%7.2f %7.2f %3d %-6s %-6s %s\n", r.X, r.Y, r.Size, r.Weight, r.Slant, r.Text)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeMetrics prints every sample in the registry as name{labels} value.
func writeMetrics(w io.Writer, m *monitoring.Metrics) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			lines = append(lines, mf.GetName()+labels(metric)+" "+value(mf.GetType(), metric))
		}
	}
	sort.Strings(lines)

	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func value(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprint(m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprint(m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	default:
		return "?"
	}
}
