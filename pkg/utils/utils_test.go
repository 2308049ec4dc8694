package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-3))
	assert.Equal(t, 1.0, Clamp01(7))
	assert.Equal(t, 0.25, Clamp01(0.25))
	assert.Equal(t, 5.0, Clamp(9, 1, 5))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio(0, 0))
	assert.InDelta(t, 0.6, Ratio(60, 100), 1e-12)
}

func TestGenerateID(t *testing.T) {
	id := GenerateID("job", "Outpost Hull #2")
	assert.Regexp(t, regexp.MustCompile(`^job-outpost-hull-2-[0-9a-f]{8}$`), id)

	bare := GenerateID("ws", "  ")
	assert.Regexp(t, regexp.MustCompile(`^ws-[0-9a-f]{8}$`), bare)

	assert.NotEqual(t, GenerateID("job", "a"), GenerateID("job", "a"))
}
