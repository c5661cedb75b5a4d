package pong_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/srlehn/fbpong/pong"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeInput struct {
	active map[pong.Key]bool
	polls  int
	err    error
}

func (i *fakeInput) Poll() error            { i.polls++; return i.err }
func (i *fakeInput) Active(k pong.Key) bool { return i.active[k] }

type memDisplay struct {
	size   image.Point
	frames int
	last   *image.RGBA
	err    error
}

func (d *memDisplay) Bounds() image.Rectangle { return image.Rectangle{Max: d.size} }

func (d *memDisplay) Present(frame *image.RGBA) error {
	if d.err != nil {
		return d.err
	}
	d.frames++
	d.last = image.NewRGBA(frame.Bounds())
	copy(d.last.Pix, frame.Pix)
	return nil
}

func noSpin() float64 { return 0.5 }

func newTestGame(t *testing.T, in *fakeInput, opts ...pong.Option) (*pong.Game, *memDisplay) {
	t.Helper()
	disp := &memDisplay{size: image.Pt(600, 300)}
	g, err := pong.New(in, disp, append([]pong.Option{pong.SetRandom(noSpin)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g, disp
}

func TestNewGame(t *testing.T) {
	_, err := pong.New(nil, &memDisplay{size: image.Pt(10, 10)})
	assert.Error(t, err)
	_, err = pong.New(&fakeInput{}, &memDisplay{size: image.Pt(10, 10)}, pong.SetPoints(0))
	assert.Error(t, err)
	_, err = pong.New(&fakeInput{}, &memDisplay{size: image.Pt(10, 10)}, pong.SetSpeedFactor(0.7))
	assert.Error(t, err)
	_, err = pong.New(&fakeInput{}, &memDisplay{})
	assert.Error(t, err)

	g, _ := newTestGame(t, &fakeInput{})
	dx, dy := g.Velocity()
	// 600 * 0.02
	assert.Equal(t, 12, dx)
	assert.Zero(t, dy)
}

func TestServeDirection(t *testing.T) {
	for _, tc := range []struct {
		rnd  float64
		want int
	}{
		{0, -12},
		{0.25, -6},
		{0.75, 6},
		{0.999, 11},
	} {
		rnd := tc.rnd
		g, _ := newTestGame(t, &fakeInput{}, pong.SetRandom(func() float64 { return rnd }))
		dx, dy := g.Velocity()
		assert.Equal(t, 12, dx)
		assert.Equal(t, tc.want, dy, rnd)
	}
}

func TestTick(t *testing.T) {
	in := &fakeInput{active: map[pong.Key]bool{pong.P1Down: true, pong.P2Up: true}}
	g, _ := newTestGame(t, in)
	require.NoError(t, g.Tick())
	assert.Equal(t, 1, in.polls)
	x, y := g.Field().Ball()
	assert.Equal(t, [2]int{312, 150}, [2]int{x, y})
	p1, p2 := g.Field().Paddles()
	// default step is height/30
	assert.Equal(t, 160, p1)
	assert.Equal(t, 140, p2)

	// both keys of a player cancel out
	in.active[pong.P1Up] = true
	require.NoError(t, g.Tick())
	p1, _ = g.Field().Paddles()
	assert.Equal(t, 160, p1)
}

func TestTickScores(t *testing.T) {
	in := &fakeInput{active: map[pong.Key]bool{pong.P2Up: true}}
	g, _ := newTestGame(t, in, pong.SetPaddleStep(10))
	var ticks int
	for ; ticks < 100; ticks++ {
		require.NoError(t, g.Tick())
		if s1, _ := g.Field().Scores(); s1 > 0 {
			break
		}
	}
	s1, s2 := g.Field().Scores()
	assert.Equal(t, 1, s1)
	assert.Zero(t, s2)
	assert.Equal(t, 25, ticks)
	// the ball was served again from the centre
	x, y := g.Field().Ball()
	assert.Equal(t, [2]int{312, 150}, [2]int{x, y})
	dx, _ := g.Velocity()
	assert.Equal(t, 12, dx)
}

func TestTinyFieldStillScores(t *testing.T) {
	for _, tc := range []struct {
		size   image.Point
		factor float64
	}{
		{image.Pt(40, 30), pong.DefaultSpeedFactor},
		{image.Pt(600, 300), 0.001},
	} {
		disp := &memDisplay{size: tc.size}
		g, err := pong.New(&fakeInput{}, disp, pong.SetRandom(noSpin), pong.SetSpeedFactor(tc.factor))
		require.NoError(t, err)
		dx, _ := g.Velocity()
		assert.Equal(t, 1, dx, tc.size)

		// keep the right paddle out of the way
		g.Field().Move2(-tc.size.Y)
		for i := 0; i < 2*tc.size.X; i++ {
			require.NoError(t, g.Tick())
			if s1, _ := g.Field().Scores(); s1 > 0 {
				break
			}
		}
		s1, _ := g.Field().Scores()
		assert.Equal(t, 1, s1, tc.size)
		require.NoError(t, g.Close())
	}
}

func TestTickInputError(t *testing.T) {
	errUnplugged := stderrors.New(`unplugged`)
	in := &fakeInput{err: errUnplugged}
	g, _ := newTestGame(t, in)
	err := g.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnplugged)
}

func TestRun(t *testing.T) {
	in := &fakeInput{active: map[pong.Key]bool{pong.P2Up: true}}
	g, disp := newTestGame(t, in,
		pong.SetPoints(1),
		pong.SetInterval(time.Millisecond),
		pong.SetLinger(0),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, g.Run(ctx))

	s1, s2 := g.Field().Scores()
	assert.Equal(t, 1, s1)
	assert.Zero(t, s2)
	// 26 frames of play, the game over screen and the cleared screen
	assert.Equal(t, 28, disp.frames)
	require.NotNil(t, disp.last)
	black := color.RGBA{A: 0xff}
	for _, pt := range []image.Point{{9, 150}, {300, 150}, {0, 0}, {599, 299}} {
		assert.Equal(t, black, disp.last.RGBAAt(pt.X, pt.Y), pt)
	}
}

type slowDisplay struct {
	memDisplay
	delay time.Duration
}

func (d *slowDisplay) Present(frame *image.RGBA) error {
	time.Sleep(d.delay)
	return d.memDisplay.Present(frame)
}

func TestRunDelayedFramesAndLinger(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in := &fakeInput{active: map[pong.Key]bool{pong.P2Up: true}}
	disp := &slowDisplay{memDisplay: memDisplay{size: image.Pt(600, 300)}, delay: 3 * time.Millisecond}
	linger := 50 * time.Millisecond
	g, err := pong.New(in, disp,
		pong.SetRandom(noSpin),
		pong.SetPoints(1),
		pong.SetInterval(time.Millisecond),
		pong.SetLinger(linger),
		pong.SetLogger(logger),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, g.Run(ctx))
	elapsed := time.Since(start)

	assert.Equal(t, 28, disp.frames)
	assert.GreaterOrEqual(t, elapsed, linger+28*disp.delay)
	logs := logBuf.String()
	assert.Contains(t, logs, `delayed frame`)
	assert.Contains(t, logs, `game over`)
}

func TestRunCanceled(t *testing.T) {
	g, disp := newTestGame(t, &fakeInput{}, pong.SetInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, disp.frames)
}

func TestRunDisplayError(t *testing.T) {
	errGone := stderrors.New(`display gone`)
	g, disp := newTestGame(t, &fakeInput{})
	disp.err = errGone
	assert.ErrorIs(t, g.Run(context.Background()), errGone)
}
