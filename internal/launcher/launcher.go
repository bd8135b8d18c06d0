package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GriffinCanCode/spotifytv/internal/adb"
	"github.com/GriffinCanCode/spotifytv/internal/firetv"
	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/config"
	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/spotifytv/internal/shared/id"
	"github.com/GriffinCanCode/spotifytv/internal/spotify"
	"github.com/GriffinCanCode/spotifytv/internal/transfer"
	"go.uber.org/zap"
)

// Step names used in logs and metrics.
const (
	StepConnect       = "connect_tv"
	StepEnsureAwake   = "ensure_awake"
	StepOpenSpotify   = "open_spotify"
	StepSpotifyClient = "spotify_client"
	StepRefreshToken  = "refresh_token"
	StepTransfer      = "transfer"
)

// Result summarizes a run.
type Result struct {
	RunID    id.RunID
	ScreenOn bool
	Plan     transfer.Plan
	Elapsed  time.Duration
}

// Launcher runs the pipeline once.
type Launcher struct {
	cfg     *config.Config
	runner  adb.Runner
	spotify spotify.Config
	out     io.Writer
	logger  *zap.Logger
	metrics *monitoring.Metrics
	sleep   firetv.SleepFunc
	runID   id.RunID
	start   time.Time
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithRunner replaces the adb executable runner.
func WithRunner(runner adb.Runner) Option {
	return func(l *Launcher) { l.runner = runner }
}

// WithSpotifyEndpoints points the Spotify client at other API and token URLs.
func WithSpotifyEndpoints(baseURL, tokenURL string) Option {
	return func(l *Launcher) {
		l.spotify.BaseURL = baseURL
		l.spotify.TokenURL = tokenURL
	}
}

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(l *Launcher) {
		if w != nil {
			l.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(l *Launcher) {
		if metrics != nil {
			l.metrics = metrics
		}
	}
}

// WithSleeper replaces the pause used between wake probes.
func WithSleeper(sleep firetv.SleepFunc) Option {
	return func(l *Launcher) { l.sleep = sleep }
}

// WithStartTime sets the instant elapsed time is measured from.
func WithStartTime(start time.Time) Option {
	return func(l *Launcher) { l.start = start }
}

// WithRunID sets the run identifier.
func WithRunID(runID id.RunID) Option {
	return func(l *Launcher) { l.runID = runID }
}

// New creates a Launcher for cfg.
func New(cfg *config.Config, opts ...Option) *Launcher {
	l := &Launcher{
		cfg: cfg,
		spotify: spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RedirectURI:  cfg.Spotify.RedirectURI,
		},
		out:     os.Stdout,
		logger:  zap.NewNop(),
		metrics: monitoring.NewMetrics(),
		start:   time.Now(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.runID == "" {
		l.runID = id.NewRunID()
	}
	l.logger = l.logger.With(zap.String("run_id", l.runID.String()))
	if l.runner == nil {
		l.runner = adb.NewClient(cfg.FireTV.ADBPath, l.logger.Named("adb"))
	}
	return l
}

// Run executes the pipeline. On success it prints the elapsed time.
func (l *Launcher) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: l.runID}
	l.logger.Info("Run started", zap.String("tv", l.cfg.FireTV.Endpoint()))

	err := l.run(ctx, res)
	res.Elapsed = time.Since(l.start)

	l.metrics.Finish(err == nil)
	if path := l.cfg.Metrics.File; path != "" {
		if werr := l.metrics.WriteTextfile(path); werr != nil {
			l.logger.Warn("Failed to write metrics", zap.String("path", path), zap.Error(werr))
		}
	}

	if err != nil {
		l.logger.Error("Run failed",
			zap.String("kind", ErrorKind(err)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(err))
		return res, err
	}

	l.logger.Info("Run finished",
		zap.Stringer("decision", res.Plan.Decision),
		zap.Duration("elapsed", res.Elapsed))
	fmt.Fprintf(l.out, "Done. Elapsed: %.2fs\n", res.Elapsed.Seconds())
	return res, nil
}

func (l *Launcher) run(ctx context.Context, res *Result) error {
	fire := l.cfg.FireTV
	tv := firetv.NewController(l.runner,
		firetv.WithLogger(l.logger.Named("firetv")),
		firetv.WithPort(fire.ADBPort),
		firetv.WithAppPackage(fire.AppPackage),
		firetv.WithWakeInterval(fire.WakeInterval),
		firetv.WithSleeper(l.sleep),
		firetv.WithWakeObserver(l.metrics.IncWakeEvents),
	)

	if err := l.step(StepConnect, func() error {
		return tv.Connect(ctx, fire.IP)
	}); err != nil {
		return err
	}

	if err := l.step(StepEnsureAwake, func() error {
		on, err := tv.EnsureAwake(ctx, fire.WakeTries)
		res.ScreenOn = on
		return err
	}); err != nil {
		return err
	}
	l.metrics.RecordScreen(res.ScreenOn)
	if !res.ScreenOn {
		l.logger.Warn("Screen still asleep, continuing", zap.Int("tries", fire.WakeTries))
	}
	fmt.Fprintf(l.out, "Screen on: %t\n", res.ScreenOn)

	if err := l.step(StepOpenSpotify, func() error {
		return tv.OpenSpotify(ctx)
	}); err != nil {
		return err
	}

	var client *spotify.Client
	if err := l.step(StepSpotifyClient, func() error {
		var err error
		store := spotify.NewTokenStore(l.cfg.Spotify.TokenCache)
		client, err = spotify.NewClient(ctx, l.spotify, store, l.logger.Named("spotify"))
		return err
	}); err != nil {
		return err
	}

	if err := l.step(StepRefreshToken, func() error {
		return client.Refresh(ctx)
	}); err != nil {
		return err
	}

	return l.step(StepTransfer, func() error {
		return l.transfer(ctx, client, res)
	})
}

func (l *Launcher) transfer(ctx context.Context, player transfer.Player, res *Result) error {
	match := transfer.NameMatcher{
		Substring: l.cfg.Device.Match,
		FoldCase:  l.cfg.Device.FoldCase,
	}
	tr := transfer.New(player, match, l.logger.Named("transfer"))

	playback, devices, err := tr.Snapshot(ctx)
	if err != nil {
		return err
	}
	current := playback.DeviceID()
	if current == "" {
		current = "none"
	}
	fmt.Fprintf(l.out, "Current device: %s\n", current)

	plan, err := transfer.Decide(playback, devices, match)
	if err != nil {
		return err
	}
	res.Plan = plan

	if err := tr.Apply(ctx, plan); err != nil {
		return err
	}
	l.metrics.RecordDecision(plan.Decision.String())
	fmt.Fprintln(l.out, plan.Decision)
	return nil
}

// step times fn and records it.
func (l *Launcher) step(name string, fn func() error) error {
	timer := monitoring.NewTimer(l.metrics, name)
	err := fn()
	elapsed := timer.Stop(err, ErrorKind(err))

	if err != nil {
		return err
	}
	l.logger.Debug("Step done", zap.String("step", name), zap.Duration("elapsed", elapsed))
	return nil
}
