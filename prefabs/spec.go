package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/platformer/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped by every validation failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

// DefaultWorld is the prefab the game loads when none is named.
const DefaultWorld = "world.yaml"

// Defaulter is implemented by specs that fill zero values after decoding.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by specs that check themselves after defaults.
type Validator interface {
	Validate() error
}

// LoadSpec decodes the named prefab into a T. When *T implements Defaulter or
// Validator, defaults are applied and then the result is validated.
func LoadSpec[T any](filename string) (*T, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec := new(T)
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	if d, ok := any(spec).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := any(spec).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
		}
	}
	return spec, nil
}

// LoadWorldSpec loads, defaults and validates a world prefab.
func LoadWorldSpec(filename string) (*WorldSpec, error) {
	return LoadSpec[WorldSpec](filename)
}

// WorldSpec lays out one world. Lengths are display pixels.
type WorldSpec struct {
	Name      string         `yaml:"name"`
	Gravity   *VecSpec       `yaml:"gravity"`
	TimeStep  float64        `yaml:"timestep"`
	SubSteps  int            `yaml:"sub_steps"`
	Impulses  ImpulseSpec    `yaml:"impulses"`
	Player    PlayerSpec     `yaml:"player"`
	Platforms []PlatformSpec `yaml:"platforms"`
	Walls     []PlatformSpec `yaml:"walls"`
}

type VecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VecSpec) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

// ImpulseSpec holds mass-relative impulse coefficients.
type ImpulseSpec struct {
	Move float64 `yaml:"move"`
	Jump float64 `yaml:"jump"`
}

type MaterialSpec struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
	Density     float64 `yaml:"density"`
}

type ColliderKind string

const (
	ColliderBox     ColliderKind = "box"
	ColliderCapsule ColliderKind = "capsule"
)

type FootSensorSpec struct {
	// WidthFraction is the sensor width relative to the body width.
	WidthFraction float64 `yaml:"width_fraction"`
	// Thickness is centered on the body's bottom edge.
	Thickness float64 `yaml:"thickness"`
}

type PlayerSpec struct {
	Spawn         VecSpec        `yaml:"spawn"`
	HalfExtents   VecSpec        `yaml:"half_extents"`
	Collider      ColliderKind   `yaml:"collider"`
	FixedRotation *bool          `yaml:"fixed_rotation"`
	LinearDamping float64        `yaml:"linear_damping"`
	Material      MaterialSpec   `yaml:"material"`
	FootSensor    FootSensorSpec `yaml:"foot_sensor"`
	Color         *YAMLColor     `yaml:"color"`
}

type PlatformSpec struct {
	Center      VecSpec      `yaml:"center"`
	HalfExtents VecSpec      `yaml:"half_extents"`
	Material    MaterialSpec `yaml:"material"`
	Color       *YAMLColor   `yaml:"color"`
}

var (
	defaultPlayerColor   = color.NRGBA{R: 230, G: 41, B: 55, A: 255}
	defaultPlatformColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// ApplyDefaults fills zero values from the package constants.
func (s *WorldSpec) ApplyDefaults() {
	if s.Gravity == nil {
		s.Gravity = &VecSpec{X: common.Gravity.X(), Y: common.Gravity.Y()}
	}
	if s.TimeStep == 0 {
		s.TimeStep = common.TimeStep
	}
	if s.SubSteps == 0 {
		s.SubSteps = common.SubSteps
	}
	if s.Impulses.Move == 0 {
		s.Impulses.Move = common.MoveImpulse
	}
	if s.Impulses.Jump == 0 {
		s.Impulses.Jump = common.JumpImpulse
	}

	p := &s.Player
	if p.Collider == "" {
		p.Collider = ColliderBox
	}
	if p.FixedRotation == nil {
		fixed := true
		p.FixedRotation = &fixed
	}
	if p.Material.Density == 0 {
		p.Material.Density = 0.05
	}
	if p.FootSensor.WidthFraction == 0 {
		p.FootSensor.WidthFraction = 0.9
	}
	if p.FootSensor.Thickness == 0 {
		p.FootSensor.Thickness = 4
	}
	if p.Color == nil {
		p.Color = &YAMLColor{Color: defaultPlayerColor}
	}
	for i := range s.Platforms {
		if s.Platforms[i].Color == nil {
			s.Platforms[i].Color = &YAMLColor{Color: defaultPlatformColor}
		}
	}
}

// Validate reports the first problem found. Call ApplyDefaults first.
func (s *WorldSpec) Validate() error {
	if s.TimeStep <= 0 {
		return fmt.Errorf("%w: timestep %v must be positive", ErrInvalidSpec, s.TimeStep)
	}
	if s.SubSteps < 1 {
		return fmt.Errorf("%w: sub_steps %d must be at least 1", ErrInvalidSpec, s.SubSteps)
	}
	if s.Impulses.Move < 0 || s.Impulses.Jump < 0 {
		return fmt.Errorf("%w: impulses must not be negative", ErrInvalidSpec)
	}

	p := s.Player
	if p.HalfExtents.X <= 0 || p.HalfExtents.Y <= 0 {
		return fmt.Errorf("%w: player half_extents %+v must be positive", ErrInvalidSpec, p.HalfExtents)
	}
	switch p.Collider {
	case ColliderBox:
	case ColliderCapsule:
		if p.HalfExtents.Y < p.HalfExtents.X {
			return fmt.Errorf("%w: capsule player must be at least as tall as wide", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unknown player collider %q", ErrInvalidSpec, p.Collider)
	}
	if p.LinearDamping < 0 {
		return fmt.Errorf("%w: player linear_damping %v must not be negative", ErrInvalidSpec, p.LinearDamping)
	}
	if p.Material.Density <= 0 {
		return fmt.Errorf("%w: player density %v must be positive", ErrInvalidSpec, p.Material.Density)
	}
	if f := p.FootSensor.WidthFraction; f <= 0 || f > 1 {
		return fmt.Errorf("%w: foot_sensor width_fraction %v must be in (0, 1]", ErrInvalidSpec, f)
	}
	if p.FootSensor.Thickness <= 0 {
		return fmt.Errorf("%w: foot_sensor thickness %v must be positive", ErrInvalidSpec, p.FootSensor.Thickness)
	}

	for i, pl := range s.Platforms {
		if pl.HalfExtents.X <= 0 || pl.HalfExtents.Y <= 0 {
			return fmt.Errorf("%w: platform %d half_extents %+v must be positive", ErrInvalidSpec, i, pl.HalfExtents)
		}
	}
	for i, wl := range s.Walls {
		if wl.HalfExtents.X <= 0 || wl.HalfExtents.Y <= 0 {
			return fmt.Errorf("%w: wall %d half_extents %+v must be positive", ErrInvalidSpec, i, wl.HalfExtents)
		}
	}
	return nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa" strings; the '#' is optional.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: color at line %d must be a string", ErrInvalidSpec, value.Line)
	}
	clr, err := parseHexColor(value.Value)
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrInvalidSpec, value.Line, err)
	}
	c.Color = clr
	return nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
