package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"stockmotion/internal/config"
	"stockmotion/internal/download"
	"stockmotion/internal/plot"
	"stockmotion/internal/provider"
	"stockmotion/internal/provider/piquette"
	"stockmotion/internal/provider/yahoo"
	"stockmotion/internal/ratelimit"
	"stockmotion/internal/table"
	"stockmotion/internal/video"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	var err error
	switch os.Args[1] {
	case "download":
		err = runDownload(ctx, os.Args[2:])
	case "render":
		err = runRender(ctx, os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: stockmotion <command> [flags]

Commands:
  download   Fetch stock price history and write it as a CSV
  render     Render an animation from a downloaded CSV

Run "stockmotion <command> --help" for the command's flags.
`)
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runDownload(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("download", pflag.ContinueOnError)
	flags.StringSlice("tickers", nil, "ticker symbols to download (also accepted as positional arguments)")
	flags.String("start", "1900-01-01", "start date (YYYY-MM-DD)")
	flags.String("end", "2100-01-01", "end date (YYYY-MM-DD)")
	flags.String("quote", "high", "price column: open, high, low or close")
	flags.String("provider", "yahoo", "market data provider: yahoo or piquette")
	flags.String("base-url", "", "override the provider base URL")
	flags.Float64("rate-limit", 4, "provider requests per second")
	flags.StringP("csv", "p", "stock_data.csv", "output CSV path")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if positional := flags.Args(); len(positional) > 0 {
		cfg.Tickers = positional
	}
	if err := cfg.ValidateDownload(); err != nil {
		return err
	}
	start, end, err := cfg.Range()
	if err != nil {
		return err
	}
	quote, err := provider.ParseQuote(cfg.Quote)
	if err != nil {
		return err
	}

	var p provider.Provider
	switch cfg.Provider {
	case "piquette":
		p = piquette.New()
	default:
		p = yahoo.New(cfg.BaseURL)
	}
	limiter := ratelimit.New()
	limiter.Set(p.Name(), cfg.RateLimit)

	slog.Info("downloading history",
		"provider", p.Name(),
		"tickers", strings.Join(cfg.Tickers, ","),
		"start", cfg.Start,
		"end", cfg.End)

	tbl, err := download.New(p, limiter, quote).Download(ctx, cfg.Tickers, start, end)
	if err != nil {
		return err
	}
	if err := tbl.WriteFile(cfg.CSVPath); err != nil {
		return err
	}

	slog.Info("wrote CSV", "path", cfg.CSVPath, "rows", tbl.Len(), "series", len(tbl.Names))
	return nil
}

func runRender(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	flags.StringP("csv", "p", "stock_data.csv", "input CSV path")
	flags.StringP("type", "t", "growing-line", "plot variant: line, growing-line, bar or growing-bar")
	flags.String("title", "Market Price", "plot title")
	flags.String("x-label", "", "x-axis label (variant default when empty)")
	flags.String("y-label", "Price [$]", "y-axis label")
	flags.IntP("background-run-time", "b", 5, "seconds to ease in the initial plot")
	flags.IntP("animation-run-time", "a", 50, "seconds from the initial plot to the final plot")
	flags.IntP("wait-run-time", "w", 5, "seconds to hold the final plot")
	flags.Int("fps", 30, "frames per second")
	flags.Int("width", 1280, "frame width in pixels")
	flags.Int("height", 720, "frame height in pixels")
	flags.StringSlice("colors", nil, "series colors as hex values")
	flags.Int("num-ticks", 0, "axis tick count (variant default when 0)")
	flags.Int("num-samples", 0, "rows to animate, downsampled evenly (variant default when 0)")
	flags.StringP("output", "o", "", "output: an .mp4 file (needs ffmpeg) or a frame directory")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	sceneCfg, err := sceneConfig(cfg.Plot)
	if err != nil {
		return err
	}

	tbl, err := table.ReadFile(cfg.CSVPath)
	if err != nil {
		return err
	}
	scene, err := plot.NewScene(sceneCfg, tbl)
	if err != nil {
		return err
	}

	out := cfg.Output
	if out == "" {
		out = strings.TrimSuffix(cfg.CSVPath, ".csv") + "_frames"
	}
	var sink video.Sink
	if strings.HasSuffix(out, ".mp4") {
		sink, err = video.NewFFmpeg(ctx, out, sceneCfg.FPS)
	} else {
		sink, err = video.NewFrameDir(out)
	}
	if err != nil {
		return err
	}

	slog.Info("rendering scene",
		"variant", string(sceneCfg.Variant),
		"rows", scene.Table().Len(),
		"frames", scene.FrameCount(),
		"output", out)

	if err := scene.Render(ctx, sink); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	slog.Info("render complete", "output", out)
	return nil
}

// sceneConfig merges the loaded plot settings onto the variant's
// defaults. Empty or zero values keep the default.
func sceneConfig(pc config.PlotConfig) (plot.Config, error) {
	variant, err := plot.ParseVariant(pc.Variant)
	if err != nil {
		return plot.Config{}, err
	}

	c := plot.Default(variant)
	c.BackgroundRunTime = pc.BackgroundRunTime
	c.AnimationRunTime = pc.AnimationRunTime
	c.WaitRunTime = pc.WaitRunTime
	c.FPS = pc.FPS
	c.Width = pc.Width
	c.Height = pc.Height
	if pc.Title != "" {
		c.Title = pc.Title
	}
	if pc.XLabel != "" {
		c.XLabel = pc.XLabel
	}
	if pc.YLabel != "" {
		c.YLabel = pc.YLabel
	}
	if len(pc.Colors) > 0 {
		c.Colors = pc.Colors
	}
	if pc.NumTicks > 0 {
		c.NumTicks = pc.NumTicks
	}
	if pc.NumSamples > 0 {
		c.NumSamples = pc.NumSamples
	}
	return c, nil
}
