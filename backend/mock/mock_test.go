package mock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anthropics/audioengine/pkg/engine"
)

func TestAdvanceFramesRendersExactCount(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.InternalBufferSize = 32
	_, renderer, err := engine.New(cfg)
	require.NoError(t, err)

	b := New(renderer, 2, cfg.InternalBufferSize)
	out := b.AdvanceFrames(50)

	require.Len(t, out, 50*2)
}

func TestAdvanceIsDeterministicWithNoSounds(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.InternalBufferSize = 16
	_, renderer, err := engine.New(cfg)
	require.NoError(t, err)

	b := New(renderer, 2, cfg.InternalBufferSize)
	for _, v := range b.Advance() {
		require.InDelta(t, 0, v, 1e-9)
	}
}
