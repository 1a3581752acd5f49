package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWith(&buf, "debug", "json")
	logger.Debug("fruit picked", "aoeN", 4)

	out := buf.String()
	assert.Contains(t, out, `"msg":"fruit picked"`)
	assert.Contains(t, out, `"aoeN":4`)
}

func TestNewWithUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWith(&buf, "loud", "text")
	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
