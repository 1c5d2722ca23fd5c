// Package main provides the CLI entry point for thumbforge.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/thumbforge/pkg/adapters/filesink"
	"github.com/user/thumbforge/pkg/adapters/fswatcher"
	"github.com/user/thumbforge/pkg/adapters/ggrenderer"
	"github.com/user/thumbforge/pkg/adapters/logger"
	"github.com/user/thumbforge/pkg/adapters/nullsink"
	"github.com/user/thumbforge/pkg/adapters/osfilesystem"
	"github.com/user/thumbforge/pkg/config"
	"github.com/user/thumbforge/pkg/fonts"
	"github.com/user/thumbforge/pkg/metrics"
	"github.com/user/thumbforge/pkg/orchestrator"
	"github.com/user/thumbforge/pkg/pipeline"
	"github.com/user/thumbforge/pkg/ports"
	"github.com/user/thumbforge/pkg/stages/compose"
	"github.com/user/thumbforge/pkg/summarizer"
)

var version = "dev"

// Flag categories, translated when the flags are built.
const (
	catInput    = "Input"
	catOutput   = "Output"
	catHeadline = "Headlines"
	catLayout   = "Layout"
	catDebug    = "Debug"
	catLogging  = "Logging"
)

func main() {
	app := &cli.App{
		Name:    "thumbforge",
		Usage:   l10n.T("Compose video thumbnails with stroked headlines"),
		Version: version,
		Commands: []*cli.Command{
			{
				Name:   "compose",
				Usage:  l10n.T("Compose a thumbnail once"),
				Flags:  composeFlags(),
				Action: composeAction,
			},
			{
				Name:   "watch",
				Usage:  l10n.T("Recompose whenever the inputs change"),
				Flags:  composeFlags(),
				Action: watchAction,
			},
			{
				Name:   "fonts",
				Usage:  l10n.T("List available font families"),
				Flags:  fontsFlags(),
				Action: fontsAction,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Println(l10n.F("thumbforge version %s", version))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

func fontsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T(catInput), Usage: l10n.T("YAML configuration file")},
		&cli.StringSliceFlag{Name: "font", Category: l10n.T(catInput), Usage: l10n.T("Font file as family:weight:path (repeatable)")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Category: l10n.T(catLogging), Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T(catLogging), Usage: l10n.T("Suppress all log output")},
	}
}

func composeFlags() []cli.Flag {
	return append(fontsFlags(),
		&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Category: l10n.T(catInput), Usage: l10n.T("Background image (JPEG, PNG, GIF, WebP, BMP, TIFF)")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T(catOutput), Usage: l10n.T("Output file path, .png or .jpg (required)")},
		&cli.StringFlag{Name: "aspect", Aliases: []string{"a"}, Category: l10n.T(catOutput), Usage: l10n.T("Aspect ratio (16:9, 9:16, 1:1)")},
		&cli.StringFlag{Name: "summary", Category: l10n.T(catOutput), Usage: l10n.T("Write a Markdown summary to this path")},
		&cli.StringFlag{Name: "metrics-file", Category: l10n.T(catOutput), Usage: l10n.T("Write Prometheus metrics to this textfile")},
		&cli.StringFlag{Name: "headline1", Category: l10n.T(catHeadline), Usage: l10n.T("First headline text")},
		&cli.StringFlag{Name: "headline2", Category: l10n.T(catHeadline), Usage: l10n.T("Second headline text")},
		&cli.StringFlag{Name: "anchor", Category: l10n.T(catLayout), Usage: l10n.T("Vertical position (top, center, bottom)")},
		&cli.StringFlag{Name: "align", Category: l10n.T(catLayout), Usage: l10n.T("Horizontal alignment (left, center, right)")},
		&cli.Float64Flag{Name: "spacing", Category: l10n.T(catLayout), Usage: l10n.T("Gap between headlines in percent of the shorter side")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Category: l10n.T(catDebug), Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Category: l10n.T(catDebug), Usage: l10n.T("Directory for debug output")},
	)
}

// buildConfig loads the optional config file and applies flag overrides.
// Warnings describe values that were corrected while normalizing.
func buildConfig(c *cli.Context) (config.Config, []string, error) {
	base := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return base, nil, fmt.Errorf("load config: %w", err)
		}
		base = loaded
	}

	b := config.NewBuilder(base)
	if c.IsSet("image") {
		b.WithImage(c.String("image"))
	}
	if c.IsSet("output") {
		b.WithOutput(c.String("output"))
	}
	if c.IsSet("aspect") {
		b.WithAspectRatio(c.String("aspect"))
	}
	if c.IsSet("headline1") {
		b.WithHeadline1(c.String("headline1"))
	}
	if c.IsSet("headline2") {
		b.WithHeadline2(c.String("headline2"))
	}
	if c.IsSet("anchor") {
		b.WithAnchor(pipeline.VerticalAnchor(c.String("anchor")))
	}
	if c.IsSet("align") {
		b.WithAlign(pipeline.HorizontalAlign(c.String("align")))
	}
	if c.IsSet("spacing") {
		b.WithSpacing(c.Float64("spacing"))
	}
	for _, s := range c.StringSlice("font") {
		f, err := config.ParseFontFlag(s)
		if err != nil {
			return base, nil, err
		}
		b.WithFont(f)
	}
	if c.Bool("debug") {
		b.WithDebug(c.String("debug-dir"))
	}
	if c.IsSet("summary") {
		b.WithSummary(c.String("summary"))
	}
	if c.IsSet("metrics-file") {
		b.WithMetricsFile(c.String("metrics-file"))
	}

	warnings := b.Validate()
	cfg := b.Build()
	if cfg.Output == "" {
		return cfg, warnings, fmt.Errorf("%s", l10n.T("an output path is required (--output or output: in the config file)"))
	}
	return cfg, warnings, nil
}

func newLogger(c *cli.Context) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// engine holds the adapters shared by every run of one command.
type engine struct {
	fs       *osfilesystem.FileSystem
	registry *fonts.Registry
	metrics  *metrics.Metrics
	orch     *orchestrator.Orchestrator
	log      ports.Logger
}

func newEngine(cfg config.Config, log ports.Logger) (*engine, error) {
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	registry := fonts.NewRegistry(log)
	m := metrics.New()

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	stage := compose.NewStage(renderer, registry, cfg.Bounds, sink, log)
	orch := orchestrator.New(stage, registry, renderer, fs, m, log)

	return &engine{fs: fs, registry: registry, metrics: m, orch: orch, log: log}, nil
}

// runOnce composes cfg and writes the optional reports.
func (rt *engine) runOnce(ctx context.Context, cfg config.Config, warnings []string, skipUnchanged bool) error {
	for _, p := range warnings {
		rt.log.Warn(l10n.F("Config: %s", p))
	}

	oc := cfg.ToOrchestratorConfig()
	oc.SkipUnchanged = skipUnchanged

	result, runErr := rt.orch.Run(ctx, oc)

	if cfg.MetricsFile != "" {
		if err := rt.metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			rt.log.Warn(l10n.F("Failed to write metrics: %s", err))
		}
	}
	if runErr != nil {
		return runErr
	}

	for _, err := range result.FontErrors {
		rt.log.Warn(l10n.F("Font unavailable, using fallback: %s", err))
	}

	if cfg.Summary != "" {
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		w := summarizer.NewWriter(formatter, rt.fs)
		if err := w.Write(cfg.Summary, buildSummary(cfg, result)); err != nil {
			rt.log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			rt.log.Info(l10n.F("Summary saved to %s", cfg.Summary))
		}
	}
	return nil
}

func buildSummary(cfg config.Config, r orchestrator.RunResult) *summarizer.Summary {
	comp := r.Composition
	b := summarizer.NewBuilder().
		WithCanvas(string(comp.Canvas.AspectRatio), comp.Canvas.Width, comp.Canvas.Height).
		WithLayout(string(cfg.Layout.VerticalAnchor), string(cfg.Layout.HorizontalAlign), comp.Plan.Gap).
		WithOutput(summarizer.OutputInfo{
			Path:       r.OutputPath,
			FileSize:   r.FileSize,
			Digest:     r.Digest,
			Unchanged:  r.Unchanged,
			DurationMs: r.DurationMs,
		})

	bg := summarizer.BackgroundInfo{Path: r.Background.Path, Width: r.Background.Width, Height: r.Background.Height}
	if comp.Crop != nil {
		bg.CropX, bg.CropY = comp.Crop.X, comp.Crop.Y
		bg.CropWidth, bg.CropHeight = comp.Crop.Width, comp.Crop.Height
	}
	b.WithBackground(bg)

	ys := [pipeline.HeadlineSlots]float64{comp.Plan.Block1Y, comp.Plan.Block2Y}
	for i := 0; i < pipeline.HeadlineSlots; i++ {
		f := comp.Fonts[i]
		b.WithHeadline(summarizer.HeadlineInfo{
			Lines:       comp.Blocks[i].Lines,
			Font:        fmt.Sprintf("%s %d", f.Family, f.Weight),
			Fallback:    f.Fallback,
			FontSize:    comp.Sizes[i].FontSize,
			StrokeWidth: comp.Sizes[i].StrokeWidth,
			Y:           ys[i],
		})
	}
	for _, err := range r.FontErrors {
		b.WithFontError(err)
	}
	return b.Build()
}

func composeAction(c *cli.Context) error {
	log := newLogger(c)
	cfg, warnings, err := buildConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	rt, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	return rt.runOnce(ctx, cfg, warnings, false)
}

func watchAction(c *cli.Context) error {
	log := newLogger(c)
	cfg, warnings, err := buildConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	rt, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	if err := rt.runOnce(ctx, cfg, warnings, true); err != nil {
		log.Error(l10n.F("Composition failed: %s", err))
	}

	// The watched set is fixed at startup; paths added by a config reload
	// take effect after a restart.
	var files []string
	for _, f := range append([]string{c.String("config"), cfg.Image}, fontPaths(cfg)...) {
		if f != "" {
			files = append(files, f)
		}
	}
	w, err := fswatcher.New(files, fswatcher.DefaultDebounce, log)
	if err != nil {
		return err
	}

	log.Info(l10n.F("Watching %d files for changes", len(files)))
	return w.Run(ctx, func(path string) {
		log.Info(l10n.F("Change detected in %s, recomposing", filepath.Base(path)))
		next, nextWarnings, err := buildConfig(c)
		if err != nil {
			log.Error(l10n.F("Composition failed: %s", err))
			return
		}
		if err := rt.runOnce(ctx, next, nextWarnings, true); err != nil {
			log.Error(l10n.F("Composition failed: %s", err))
		}
	})
}

func fontPaths(cfg config.Config) []string {
	paths := make([]string, 0, len(cfg.Fonts))
	for _, f := range cfg.Fonts {
		paths = append(paths, f.Path)
	}
	return paths
}

func fontsAction(c *cli.Context) error {
	log := newLogger(c)

	var fontCfgs []config.FontConfig
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		fontCfgs = loaded.Fonts
	}
	for _, s := range c.StringSlice("font") {
		f, err := config.ParseFontFlag(s)
		if err != nil {
			return err
		}
		fontCfgs = append(fontCfgs, f)
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	registry := fonts.NewRegistry(log)
	pending := make([]<-chan error, len(fontCfgs))
	for i, f := range fontCfgs {
		path := f.Path
		pending[i] = registry.LoadAsync(ctx, f.Family, f.Weight, path, func(ctx context.Context) ([]byte, error) {
			return fs.ReadFile(path)
		})
	}
	for _, ch := range pending {
		<-ch
	}

	for _, info := range registry.Families() {
		line := fmt.Sprintf("%-24s %4d  %-8s %s", info.DisplayName, info.Weight, info.State, info.Source)
		if info.Err != nil {
			line += "  " + info.Err.Error()
		}
		fmt.Println(line)
	}
	return nil
}
