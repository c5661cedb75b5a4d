// Package pong implements a two-player pong game: the playing field with
// its ball and paddle physics, and a fixed timestep game loop drawing to a
// [Display] and reading an [Input].
package pong

// Field is the playing field. All coordinates are in pixels, paddle
// positions are the vertical centres of the paddles.
type Field struct {
	width        int
	height       int
	paddleHeight int
	paddleWidth  int
	ballSize     int
	player1      int
	player2      int
	score1       int
	score2       int
	ballX        int
	ballY        int
}

// NewField returns a field of the given size with both paddles and the
// ball centred.
func NewField(width, height int) *Field {
	f := &Field{
		width:   width,
		height:  height,
		player1: height / 2,
		player2: height / 2,
	}
	f.paddleHeight = height / 5
	f.paddleWidth = f.paddleHeight / 10
	f.ballSize = height / 60
	f.ResetBall()
	return f
}

func (f *Field) Width() int        { return f.width }
func (f *Field) Height() int       { return f.height }
func (f *Field) PaddleWidth() int  { return f.paddleWidth }
func (f *Field) PaddleHeight() int { return f.paddleHeight }
func (f *Field) BallSize() int     { return f.ballSize }

// Ball returns the position of the ball centre.
func (f *Field) Ball() (x, y int) { return f.ballX, f.ballY }

// Paddles returns the centres of both paddles.
func (f *Field) Paddles() (p1, p2 int) { return f.player1, f.player2 }

// Scores returns the points of both players.
func (f *Field) Scores() (s1, s2 int) { return f.score1, f.score2 }

// leftPaddleX and rightPaddleX are the x coordinates at which the ball
// bounces off the paddles.
func (f *Field) leftPaddleX() int  { return 2 * f.paddleWidth }
func (f *Field) rightPaddleX() int { return f.width - 2*f.paddleWidth }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MoveBall advances the ball by (dx, dy). Walls and paddles reflect the
// ball: the velocity component is negated and the overshoot is mirrored.
func (f *Field) MoveBall(dx, dy *int) {
	newX := f.ballX + *dx
	newY := f.ballY + *dy

	// upper wall
	if newY < 0 {
		*dy = -*dy
		newY = -newY
	}
	// lower wall
	if newY > f.height {
		*dy = -*dy
		newY = 2*f.height - newY
	}

	// left paddle
	p1 := f.leftPaddleX()
	if f.ballX > p1 && newX <= p1 && 2*abs(newY-f.player1) <= f.paddleHeight {
		*dx = -*dx
		newX = 2*p1 - newX
	}
	// right paddle
	p2 := f.rightPaddleX()
	if f.ballX < p2 && newX >= p2 && 2*abs(newY-f.player2) <= f.paddleHeight {
		*dx = -*dx
		newX = 2*p2 - newX
	}

	f.ballX = newX
	f.ballY = newY
}

// clampPaddle keeps a paddle centre on the field.
func (f *Field) clampPaddle(y int) int {
	lo := f.paddleHeight / 2
	hi := f.height - (f.paddleHeight - f.paddleHeight/2)
	if hi < lo {
		return f.height / 2
	}
	return max(lo, min(hi, y))
}

// Move1 moves the paddle of player 1 by dist, positive is downwards.
func (f *Field) Move1(dist int) { f.player1 = f.clampPaddle(f.player1 + dist) }

// Move2 moves the paddle of player 2 by dist, positive is downwards.
func (f *Field) Move2(dist int) { f.player2 = f.clampPaddle(f.player2 + dist) }

func (f *Field) Score1() { f.score1++ }
func (f *Field) Score2() { f.score2++ }

// Scored reports which player scores if the ball moves by dx: 1 if the
// ball is past the right paddle and reaches the right border, 2 if it is
// past the left paddle and reaches the left border, otherwise 0.
func (f *Field) Scored(dx, dy int) int {
	newX := f.ballX + dx
	if f.ballX < f.leftPaddleX() && newX <= 0 {
		return 2
	}
	if f.ballX > f.rightPaddleX() && newX >= f.width {
		return 1
	}
	return 0
}

// GameOver reports whether a player has reached points.
func (f *Field) GameOver(points int) bool {
	return f.score1 >= points || f.score2 >= points
}

// Winner returns the player with the higher score, 0 on a tie.
func (f *Field) Winner() int {
	switch {
	case f.score1 > f.score2:
		return 1
	case f.score2 > f.score1:
		return 2
	}
	return 0
}

// ResetBall puts the ball back to the centre.
func (f *Field) ResetBall() {
	f.ballX = f.width / 2
	f.ballY = f.height / 2
}
