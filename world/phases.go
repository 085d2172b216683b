package world

import (
	"github.com/milk9111/platformer/control"
	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/physics"
	"go.uber.org/zap"
)

// Frame carries one tick's data between phases.
type Frame struct {
	Tick    int
	Intent  control.Intent
	Applied control.Result
	Events  physics.SensorEvents
	// GroundChanged is set when the sensor events flipped the grounded state.
	GroundChanged bool

	src input.Source
}

type phase struct {
	name string
	run  func(w *World, f *Frame)
}

// Phases run in this order every tick. Impulses land before the step and
// sensor events are read only after it.
var phases = []phase{
	{"sampleInput", (*World).sampleInput},
	{"applyImpulses", (*World).applyImpulses},
	{"stepPhysics", (*World).stepPhysics},
	{"drainSensorEvents", (*World).drainSensorEvents},
	{"syncPoses", (*World).syncPoses},
}

// PhaseNames lists the tick phases in run order.
func PhaseNames() []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.name
	}
	return names
}

func (w *World) sampleInput(f *Frame) {
	f.Intent = control.Sample(f.src)
}

func (w *World) applyImpulses(f *Frame) {
	f.Applied = w.mapper.Apply(w.player, f.Intent)
	if f.Intent.Jump && !f.Applied.Jumped {
		w.log.Debug("jump ignored while airborne", zap.Int("tick", f.Tick))
	}
}

func (w *World) stepPhysics(f *Frame) {
	w.eng.Step(w.spec.TimeStep, w.spec.SubSteps)
}

func (w *World) drainSensorEvents(f *Frame) {
	f.Events = w.eng.SensorEvents()
	if f.Events.Empty() {
		return
	}
	f.GroundChanged = w.player.HandleSensorEvents(f.Events)
	if f.GroundChanged {
		w.log.Debug("ground state changed",
			zap.Int("tick", f.Tick),
			zap.Stringer("state", w.player.Sensor().State()),
			zap.Int("contacts", w.player.Sensor().Contacts()),
		)
	}
}

func (w *World) syncPoses(f *Frame) {
	w.player.Update()
}
