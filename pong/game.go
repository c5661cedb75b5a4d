package pong

import (
	"context"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/logx"
)

// Game runs a match on a field sized to its display.
type Game struct {
	field    *Field
	input    Input
	display  Display
	renderer *Renderer

	speed  float64
	dx, dy int

	points      int
	interval    time.Duration
	speedFactor float64
	paddleStep  int
	linger      time.Duration
	rnd         func() float64
	background  color.Color
	foreground  color.Color
	logger      *slog.Logger
}

var _ logx.LoggerProvider = (*Game)(nil)

// New prepares a game for display, controlled by input.
func New(input Input, display Display, opts ...Option) (*Game, error) {
	if input == nil || display == nil {
		return nil, errors.NilParam()
	}
	g := &Game{
		input:       input,
		display:     display,
		points:      DefaultPoints,
		interval:    DefaultInterval,
		speedFactor: DefaultSpeedFactor,
		linger:      DefaultLinger,
		rnd:         rand.Float64,
		background:  DefaultBackground,
		foreground:  DefaultForeground,
	}
	if err := g.SetOptions(opts...); err != nil {
		return nil, err
	}
	size := display.Bounds().Size()
	g.field = NewField(size.X, size.Y)
	g.speed = float64(size.X) * g.speedFactor
	if g.paddleStep == 0 {
		g.paddleStep = max(1, size.Y/30)
	}
	var err error
	if g.renderer, err = NewRenderer(size.X, size.Y, g.background, g.foreground); err != nil {
		return nil, err
	}
	g.resetSpeed()
	return g, nil
}

func (g *Game) Field() *Field { return g.field }

// Velocity returns the current ball velocity in pixels per frame.
func (g *Game) Velocity() (dx, dy int) { return g.dx, g.dy }

func (g *Game) Logger() *slog.Logger {
	if g == nil {
		return nil
	}
	return g.logger
}

// resetSpeed serves the ball to the right with a random vertical speed.
// The ball moves at least one pixel per frame, a narrow field or a small
// speed factor would otherwise stop it and the game could not end.
func (g *Game) resetSpeed() {
	g.dx = max(1, int(g.speed))
	g.dy = int(g.random(g.speed))
}

// random returns a uniformly distributed value in [-limit, limit).
func (g *Game) random(limit float64) float64 {
	return g.rnd()*limit*2 - limit
}

// Tick advances the game by one frame: a point is scored if the ball
// leaves the field, the ball moves and the paddles follow the input.
func (g *Game) Tick() error {
	switch g.field.Scored(g.dx, g.dy) {
	case 1:
		g.field.Score1()
		g.resetSpeed()
		g.field.ResetBall()
		s1, s2 := g.field.Scores()
		logx.Info(`point`, g, `player`, 1, `score`, [2]int{s1, s2})
	case 2:
		g.field.Score2()
		g.resetSpeed()
		g.field.ResetBall()
		s1, s2 := g.field.Scores()
		logx.Info(`point`, g, `player`, 2, `score`, [2]int{s1, s2})
	}
	g.field.MoveBall(&g.dx, &g.dy)

	err := g.input.Poll()
	if g.input.Active(P1Down) {
		g.field.Move1(g.paddleStep)
	}
	if g.input.Active(P1Up) {
		g.field.Move1(-g.paddleStep)
	}
	if g.input.Active(P2Down) {
		g.field.Move2(g.paddleStep)
	}
	if g.input.Active(P2Up) {
		g.field.Move2(-g.paddleStep)
	}
	if err != nil {
		return errors.WrapPrefix(err, `input`, 0)
	}
	return nil
}

// Run plays until a player reaches the winning score or ctx is done.
// Each frame is one Tick followed by a redraw, frames start every interval.
// The final frame is kept for the linger duration, then the screen is
// cleared.
func (g *Game) Run(ctx context.Context) error {
	if g == nil {
		return errors.NilReceiver()
	}
	timer := time.NewTimer(g.interval)
	defer timer.Stop()
	wait := func(d time.Duration) error {
		timer.Reset(d)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}

	g.resetSpeed()
	logx.Info(`game started`, g, `size`, g.display.Bounds().Size().String(), `points`, g.points)
	for !g.field.GameOver(g.points) {
		lastExecution := time.Now()
		if err := g.Tick(); err != nil {
			return err
		}
		if err := g.display.Present(g.renderer.Draw(g.field)); err != nil {
			return err
		}
		sleep := time.Until(lastExecution.Add(g.interval))
		if sleep <= 0 {
			logx.Warn(`delayed frame`, g, `late`, -sleep)
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if err := wait(sleep); err != nil {
			return err
		}
	}

	s1, s2 := g.field.Scores()
	logx.Info(`game over`, g, `winner`, g.field.Winner(), `score`, [2]int{s1, s2})
	if err := g.display.Present(g.renderer.DrawGameOver(g.field)); err != nil {
		return err
	}
	if g.linger > 0 {
		if err := wait(g.linger); err != nil {
			return err
		}
	}
	return g.display.Present(g.renderer.Clear())
}

// Close releases the renderer resources.
func (g *Game) Close() error {
	if g == nil {
		return nil
	}
	return g.renderer.Close()
}
