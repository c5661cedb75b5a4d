package linux_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srlehn/fbpong/internal/linux"
)

func TestKDModeString(t *testing.T) {
	assert.Equal(t, `KD_TEXT`, linux.KDText.String())
	assert.Equal(t, `KD_GRAPHICS`, linux.KDGraphics.String())
	assert.Equal(t, `0x10`, linux.KDMode(0x10).String())
	assert.Equal(t, `-0x1`, linux.KDMode(-1).String())
}
