package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelError)
	assert.Equal(t, LevelError, GetLevel())

	SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, GetLevel())
}

func TestSetFormatKeepsLevel(t *testing.T) {
	defer SetFormat("console")
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)
	SetFormat("json")
	assert.Equal(t, LevelWarn, GetLevel())

	assert.NotPanics(t, func() {
		Infof("roadmap %s generated", "r-1")
		With("roadmap_id", "r-1").Warn("progress recomputed")
	})
}
