package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/planbiir/gpx2garmin/internal/config"
	"github.com/planbiir/gpx2garmin/internal/garmin"
	"github.com/planbiir/gpx2garmin/internal/gpx"
	"github.com/planbiir/gpx2garmin/internal/stamp"
)

// exitFailure is what exit(-1) reports on POSIX systems
const exitFailure = 255

func main() {
	// every timestamp in the output is anchored here
	start := time.Now()

	app := newApp(os.Stdout, os.Stderr, start)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
}

func newApp(stdout, stderr io.Writer, start time.Time) *cli.App {
	return &cli.App{
		Name:            "gpx2garmin",
		Usage:           "Add synthesized timestamps to an untimed GPX track for Garmin Connect import",
		UsageText:       "gpx2garmin [flags] <input_file> <output_file> [speed]",
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fixed",
				Usage: "Advance every point by a fixed interval instead of estimating travel time",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML profile with strategy, speed_kmh and interval_seconds",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Show a summary of the converted track",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar on stderr while stamping points",
			},
		},
		Action: func(c *cli.Context) error {
			return convert(c, stdout, stderr, start)
		},
	}
}

func convert(c *cli.Context, stdout, stderr io.Writer, start time.Time) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return cli.Exit("", exitFailure)
	}
	if c.Bool("fixed") {
		cfg.Strategy = stamp.FixedInterval
	}

	args := c.Args().Slice()
	for _, arg := range args {
		// flag parsing stops at the first positional argument
		if looksLikeFlag(arg) {
			fmt.Fprintf(stderr, "Flag %s must come before <input_file>\n", arg)
			fmt.Fprintln(stdout, usage(cfg.Strategy))
			return cli.Exit("", exitFailure)
		}
	}
	if !validArity(cfg.Strategy, len(args)) {
		fmt.Fprintln(stdout, usage(cfg.Strategy))
		return cli.Exit("", exitFailure)
	}
	inputFile, outputFile := args[0], args[1]

	if len(args) == 3 {
		speed, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Fprintf(stderr, "Invalid speed %q: not a number\n", args[2])
			return cli.Exit("", exitFailure)
		}
		cfg.SpeedKmh = speed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid settings: %v\n", err)
		return cli.Exit("", exitFailure)
	}

	in, err := gpx.Parse(inputFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading GPX file: %v\n", err)
		return cli.Exit("", exitFailure)
	}

	opts := garmin.Options{
		// the output path doubles as the track name Garmin Connect shows
		TrackName: outputFile,
		Created:   start,
		Stamp:     cfg,
	}

	var bar *progressbar.ProgressBar
	if c.Bool("progress") && in.IsGPX() {
		bar = newProgressBar(stderr, in.Stats().Points)
		opts.OnPoint = func() { _ = bar.Add(1) }
	}

	out, summary, err := garmin.Build(in, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if errors.Is(err, garmin.ErrNotGPX) {
		fmt.Fprintf(stdout, "\"%s\" is not a gpx file.\n", inputFile)
		return cli.Exit("", exitFailure)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error building track: %v\n", err)
		return cli.Exit("", exitFailure)
	}

	if err := out.Write(outputFile); err != nil {
		fmt.Fprintf(stderr, "Error writing GPX file: %v\n", err)
		return cli.Exit("", exitFailure)
	}

	if c.Bool("stats") {
		printStats(stdout, cfg, in.Stats(), summary)
	}

	fmt.Fprintln(stdout, "Complete!")
	return nil
}

func validArity(strategy stamp.Strategy, n int) bool {
	if strategy == stamp.FixedInterval {
		return n == 2
	}
	return n == 2 || n == 3
}

// looksLikeFlag is true for "-x"/"--x" but not for negative numbers like "-5".
func looksLikeFlag(arg string) bool {
	if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err != nil
}

func usage(strategy stamp.Strategy) string {
	if strategy == stamp.FixedInterval {
		return "Usage: gpx2garmin --fixed <input_file> <output_file>"
	}
	return "Usage: gpx2garmin <input_file> <output_file> [speed]"
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	theme := progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetDescription("[GPX] stamping"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func printStats(w io.Writer, cfg stamp.Config, in gpx.Stats, summary garmin.Summary) {
	fmt.Fprintf(w, "\n📊 Conversion Statistics:\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	switch cfg.Strategy {
	case stamp.FixedInterval:
		fmt.Fprintf(w, "⏲️  Strategy: fixed interval (%v per point)\n", cfg.Interval)
	default:
		fmt.Fprintf(w, "🚴 Strategy: speed-based (%.1f km/h)\n", cfg.SpeedKmh)
	}
	fmt.Fprintf(w, "📍 Points: %d across %d tracks / %d segments\n",
		summary.Points, summary.Tracks, summary.Segments)
	fmt.Fprintf(w, "📏 Distance: %.2f km\n", in.DistanceKm)
	if summary.Points > 0 {
		fmt.Fprintf(w, "⏱️  Timeline: %s → %s (%v)\n",
			stamp.Format(summary.First), stamp.Format(summary.Last), summary.Duration())
	}
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
