package logx_test

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srlehn/fbpong/internal/logx"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	prov := logx.Prov(logx.NewLogger(&buf, false))
	logx.Debug(`hidden`, prov)
	logx.Info(`shown`, prov, `key`, 42)
	out := buf.String()
	assert.NotContains(t, out, `hidden`)
	assert.Contains(t, out, `msg=shown`)
	assert.Contains(t, out, `key=42`)

	buf.Reset()
	prov = logx.Prov(logx.NewLogger(&buf, true))
	logx.Debug(`visible`, prov)
	assert.Contains(t, buf.String(), `msg=visible`)
}

func TestIsErr(t *testing.T) {
	var buf bytes.Buffer
	prov := logx.Prov(logx.NewLogger(&buf, false))
	assert.False(t, logx.IsErr(nil, prov, slog.LevelError))
	assert.Empty(t, buf.String())

	err := stderrors.Join(stderrors.New(`first`), stderrors.New(`second`))
	assert.True(t, logx.IsErr(err, prov, slog.LevelError))
	assert.Contains(t, buf.String(), `msg=first`)
	assert.Contains(t, buf.String(), `msg=second`)

	assert.True(t, logx.IsErr(err, nil, slog.LevelError))
	assert.True(t, logx.IsErr(err, logx.Prov(nil), slog.LevelError))
}
