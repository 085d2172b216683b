package prefabs

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func withDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestLoadEmbeddedWorld(t *testing.T) {
	withDir(t, t.TempDir())

	spec, err := LoadWorldSpec(DefaultWorld)
	require.NoError(t, err)

	assert.Equal(t, "box_world", spec.Name)
	assert.Equal(t, 4, spec.SubSteps)
	assert.InDelta(t, common.TimeStep, spec.TimeStep, 1e-9)
	assert.Equal(t, ColliderBox, spec.Player.Collider)
	assert.True(t, *spec.Player.FixedRotation)
	assert.InDelta(t, 5.0, spec.Player.LinearDamping, 1e-9)
	assert.Len(t, spec.Platforms, 2)
	assert.Len(t, spec.Walls, 2)
	assert.Equal(t, color.NRGBA{R: 0xe6, G: 0x29, B: 0x37, A: 0xff}, spec.Player.Color.Color)
}

func TestDiskOverrideWins(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)
	data := []byte("name: override\nplayer:\n  half_extents: {x: 10, y: 20}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), data, 0o644))

	spec, err := LoadWorldSpec("prefabs/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "override", spec.Name)
	assert.Equal(t, common.Gravity, spec.Gravity.Vec2())
	assert.Equal(t, common.SubSteps, spec.SubSteps)
	assert.Equal(t, common.MoveImpulse, spec.Impulses.Move)
	assert.Equal(t, common.JumpImpulse, spec.Impulses.Jump)
	assert.InDelta(t, 0.9, spec.Player.FootSensor.WidthFraction, 1e-9)
	assert.Empty(t, spec.Platforms)
}

type countingSpec struct {
	Name     string `yaml:"name"`
	defaults int
}

func (s *countingSpec) ApplyDefaults() { s.defaults++ }

func (s *countingSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	return nil
}

func TestLoadSpecHooks(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "named.yaml"), []byte("name: a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anonymous.yaml"), []byte("other: 1\n"), 0o644))

	spec, err := LoadSpec[countingSpec]("named.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a", spec.Name)
	assert.Equal(t, 1, spec.defaults)

	_, err = LoadSpec[countingSpec]("anonymous.yaml")
	assert.ErrorIs(t, err, ErrInvalidSpec)

	// Types without hooks decode as-is.
	plain, err := LoadSpec[map[string]any]("anonymous.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, (*plain)["other"])
}

func TestInvalidWorldRejectedOnLoad(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)
	data := []byte("player:\n  half_extents: {x: 0, y: 0}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), data, 0o644))

	_, err := LoadWorldSpec("broken.yaml")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestLoadMissing(t *testing.T) {
	withDir(t, t.TempDir())
	_, err := LoadWorldSpec("nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() WorldSpec {
		s := WorldSpec{Player: PlayerSpec{HalfExtents: VecSpec{X: 10, Y: 10}}}
		s.ApplyDefaults()
		return s
	}

	tests := []struct {
		name   string
		mutate func(s *WorldSpec)
		ok     bool
	}{
		{"defaults", func(s *WorldSpec) {}, true},
		{"capsule", func(s *WorldSpec) { s.Player.Collider = ColliderCapsule; s.Player.HalfExtents.Y = 20 }, true},
		{"flat_capsule", func(s *WorldSpec) { s.Player.Collider = ColliderCapsule; s.Player.HalfExtents.Y = 5 }, false},
		{"unknown_collider", func(s *WorldSpec) { s.Player.Collider = "blob" }, false},
		{"zero_player", func(s *WorldSpec) { s.Player.HalfExtents = VecSpec{} }, false},
		{"negative_timestep", func(s *WorldSpec) { s.TimeStep = -1 }, false},
		{"zero_substeps", func(s *WorldSpec) { s.SubSteps = -2 }, false},
		{"negative_damping", func(s *WorldSpec) { s.Player.LinearDamping = -1 }, false},
		{"wide_sensor", func(s *WorldSpec) { s.Player.FootSensor.WidthFraction = 1.5 }, false},
		{"bad_platform", func(s *WorldSpec) { s.Platforms = []PlatformSpec{{HalfExtents: VecSpec{X: 1}}} }, false},
		{"bad_wall", func(s *WorldSpec) { s.Walls = []PlatformSpec{{HalfExtents: VecSpec{Y: 1}}} }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			err := s.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{`"#102030"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, true},
		{`"10203040"`, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, true},
		{`"#12"`, nil, false},
		{`"#zz0000"`, nil, false},
		{`[1, 2]`, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tc.in), &c)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidSpec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Color)
		})
	}
}

func TestLoadScript(t *testing.T) {
	withDir(t, t.TempDir())
	for _, name := range []string{"walk_and_jump.tengo", "scripts/walk_and_jump.tengo", "prefabs/scripts/walk_and_jump.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "right =")
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.yaml"), []byte("name: x\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "world.yaml", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no watcher event")
	}
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
