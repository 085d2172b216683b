package main

import (
	"testing"

	"github.com/milk9111/platformer/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunScripted(t *testing.T) {
	prev := prefabs.Dir
	prefabs.Dir = t.TempDir()
	t.Cleanup(func() { prefabs.Dir = prev })

	sum, err := run(config{
		World:  prefabs.DefaultWorld,
		Script: "walk_and_jump.tengo",
		Ticks:  400,
		Every:  100,
		Draw:   true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 400, sum.Ticks)
	assert.Equal(t, 1, sum.Jumps)
	assert.GreaterOrEqual(t, sum.Landings, 2)
	assert.True(t, sum.Grounded)
	assert.Greater(t, sum.X, 3.2)
	assert.Greater(t, sum.DrawOps, 0)
}

func TestRunErrors(t *testing.T) {
	log := zaptest.NewLogger(t)
	tests := []struct {
		name string
		cfg  config
	}{
		{"negative_ticks", config{World: prefabs.DefaultWorld, Script: "walk_and_jump.tengo", Ticks: -1}},
		{"missing_world", config{World: "missing.yaml", Script: "walk_and_jump.tengo"}},
		{"missing_script", config{World: prefabs.DefaultWorld, Script: "missing.tengo"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(tc.cfg, log)
			assert.Error(t, err)
		})
	}
}
