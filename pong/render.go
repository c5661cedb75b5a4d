package pong

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/srlehn/fbpong/internal/errors"
)

// Renderer draws a field into a reused RGBA frame.
type Renderer struct {
	frame      *image.RGBA
	dc         *gg.Context
	face       font.Face
	background color.Color
	foreground color.Color
}

// NewRenderer returns a renderer for a width×height field.
func NewRenderer(width, height int, background, foreground color.Color) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf(`invalid frame size %dx%d`, width, height)
	}
	goFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.New(err)
	}
	face := truetype.NewFace(goFont, &truetype.Options{
		Size: max(12, float64(height)/24),
	})
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(face)
	return &Renderer{
		frame:      frame,
		dc:         dc,
		face:       face,
		background: background,
		foreground: foreground,
	}, nil
}

// Frame returns the image all drawing goes to.
func (r *Renderer) Frame() *image.RGBA { return r.frame }

// Clear fills the frame with the background color.
func (r *Renderer) Clear() *image.RGBA {
	r.dc.SetColor(r.background)
	r.dc.Clear()
	return r.frame
}

// Draw renders the field onto a cleared frame.
func (r *Renderer) Draw(f *Field) *image.RGBA {
	r.Clear()
	r.dc.SetColor(r.foreground)
	r.drawPaddle(f.PaddleWidth(), f.player1, f)
	r.drawPaddle(f.Width()-2*f.PaddleWidth(), f.player2, f)
	r.drawLine(f)
	r.drawScore(f)
	r.drawBall(f)
	return r.frame
}

// DrawGameOver renders the field with the winner announced in the middle.
func (r *Renderer) DrawGameOver(f *Field) *image.RGBA {
	r.Draw(f)
	msg := `draw`
	if w := f.Winner(); w != 0 {
		msg = fmt.Sprintf(`player %d wins`, w)
	}
	cx, cy := float64(f.Width())/2, float64(f.Height())/2
	tw, th := r.dc.MeasureString(msg)
	pad := th / 2
	r.dc.SetColor(r.background)
	r.dc.DrawRectangle(cx-tw/2-pad, cy-th/2-pad, tw+2*pad, th+2*pad)
	r.dc.Fill()
	r.dc.SetColor(r.foreground)
	r.dc.DrawStringAnchored(msg, cx, cy, 0.5, 0.5)
	return r.frame
}

func (r *Renderer) fillRect(x, y, w, h int) {
	r.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	r.dc.Fill()
}

func (r *Renderer) drawPaddle(x, y int, f *Field) {
	r.fillRect(x, y-f.PaddleHeight()/2, f.PaddleWidth(), f.PaddleHeight())
}

// drawLine draws the dashed centre line.
func (r *Renderer) drawLine(f *Field) {
	step := max(1, f.Height()/20)
	dash := max(1, f.Height()/40)
	for y := 0; y < f.Height(); y += step {
		r.fillRect(f.Width()/2, y, 1, dash)
	}
}

func (r *Renderer) drawScore(f *Field) {
	s1, s2 := f.Scores()
	w := float64(f.Width())
	r.dc.DrawStringAnchored(strconv.Itoa(s1), w*0.45, 10, 0.5, 1)
	r.dc.DrawStringAnchored(strconv.Itoa(s2), w*0.55, 10, 0.5, 1)
}

func (r *Renderer) drawBall(f *Field) {
	x, y := f.Ball()
	size := max(1, f.BallSize())
	r.fillRect(x-size/2, y-size/2, size, size)
}

func (r *Renderer) Close() error {
	if r == nil || r.face == nil {
		return nil
	}
	err := r.face.Close()
	r.face = nil
	return errors.New(err)
}
