package context

import (
	"log/slog"
	"time"

	"github.com/filipesarturi/summoner/internal/action"
	"github.com/filipesarturi/summoner/internal/config"
	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/game"
	"github.com/filipesarturi/summoner/internal/motion"
	"github.com/filipesarturi/summoner/internal/utils"
	"github.com/filipesarturi/summoner/internal/vision"
)

// Locator finds a template inside a screen region.
type Locator interface {
	Locate(key string, region game.Region, threshold float64) vision.MatchResult
}

// CycleState survives between cycles of one run and is dropped when the run ends.
type CycleState struct {
	// LastClickedIndex is the canonical shelf index of the last pack located.
	LastClickedIndex int
	// InitialSearchDone flips once any pack was located; the shelf position is known after that.
	InitialSearchDone bool
}

// Context carries everything one worker run needs. It is built per run and never shared
// between runs.
type Context struct {
	RunID   string
	Config  *config.Config
	Logger  *slog.Logger
	Events  event.Sink
	HID     game.InputBackend
	Locator Locator
	Actions *action.Actions
	Clock   *utils.Clock
	Running *utils.Flag
	Cycle   *CycleState
}

type Option func(*options)

type options struct {
	sleep func(time.Duration)
	synth *motion.Synthesizer
	cycle *CycleState
}

// WithSleepFunc replaces the blocking sleep behind every cancellable wait.
func WithSleepFunc(fn func(time.Duration)) Option {
	return func(o *options) { o.sleep = fn }
}

func WithSynthesizer(s *motion.Synthesizer) Option {
	return func(o *options) { o.synth = s }
}

// WithCycleState starts the run from a known shelf position instead of a fresh one.
func WithCycleState(cs *CycleState) Option {
	return func(o *options) { o.cycle = cs }
}

// New wires a context around the shared running flag.
func New(runID string, cfg *config.Config, logger *slog.Logger, events event.Sink, hid game.InputBackend, locator Locator, running *utils.Flag, opts ...Option) *Context {
	o := options{cycle: &CycleState{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.synth == nil {
		o.synth = motion.NewSynthesizer()
	}

	clock := utils.NewClock(running.IsSet)
	if o.sleep != nil {
		clock = clock.WithSleepFunc(o.sleep)
	}

	return &Context{
		RunID:   runID,
		Config:  cfg,
		Logger:  logger.With(slog.String("run", runID)),
		Events:  events,
		HID:     hid,
		Locator: locator,
		Actions: action.New(hid, o.synth, clock).WithDefaultCursor(cfg.DefaultCursor),
		Clock:   clock,
		Running: running,
		Cycle:   o.cycle,
	}
}

func (ctx *Context) IsRunning() bool {
	return ctx.Running.IsSet()
}

// Sleep waits seconds unless the run stops first.
func (ctx *Context) Sleep(seconds float64) bool {
	return ctx.Clock.SleepSeconds(seconds)
}

func (ctx *Context) Emit(c event.Category, msg string) {
	ctx.Events.Emit(c, msg)
}

// Locate uses the configured confidence threshold.
func (ctx *Context) Locate(key, region string) vision.MatchResult {
	return ctx.Locator.Locate(key, ctx.Config.Region(region), ctx.Config.Confidence)
}
