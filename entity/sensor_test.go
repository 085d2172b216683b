package entity

import (
	"testing"

	"github.com/milk9111/platformer/physics"
	"github.com/stretchr/testify/assert"
)

func TestGroundSensorTransitions(t *testing.T) {
	foot := physics.ShapeID{Index: 2, Generation: 1, World: 7}
	ground := physics.ShapeID{Index: 9, Generation: 1, World: 7}
	other := physics.ShapeID{Index: 3, Generation: 1, World: 7}
	touch := physics.SensorEvent{Sensor: foot, Visitor: ground}

	tests := []struct {
		name    string
		events  []physics.SensorEvents
		want    GroundState
		changed []bool
	}{
		{
			name: "initially_airborne",
			want: Airborne,
		},
		{
			name:    "begin_grounds",
			events:  []physics.SensorEvents{{Begin: []physics.SensorEvent{touch}}},
			want:    Grounded,
			changed: []bool{true},
		},
		{
			name: "begin_then_end",
			events: []physics.SensorEvents{
				{Begin: []physics.SensorEvent{touch}},
				{End: []physics.SensorEvent{touch}},
			},
			want:    Airborne,
			changed: []bool{true, true},
		},
		{
			name:    "foreign_sensor_ignored",
			events:  []physics.SensorEvents{{Begin: []physics.SensorEvent{{Sensor: other, Visitor: ground}}}},
			want:    Airborne,
			changed: []bool{false},
		},
		{
			name:    "same_index_other_generation_ignored",
			events:  []physics.SensorEvents{{Begin: []physics.SensorEvent{{Sensor: physics.ShapeID{Index: 2, Generation: 2, World: 7}}}}},
			want:    Airborne,
			changed: []bool{false},
		},
		{
			name:    "unmatched_end_ignored",
			events:  []physics.SensorEvents{{End: []physics.SensorEvent{touch}}, {Begin: []physics.SensorEvent{touch}}},
			want:    Grounded,
			changed: []bool{false, true},
		},
		{
			name: "two_surfaces_one_left",
			events: []physics.SensorEvents{
				{Begin: []physics.SensorEvent{touch, {Sensor: foot, Visitor: other}}},
				{End: []physics.SensorEvent{touch}},
			},
			want:    Grounded,
			changed: []bool{true, false},
		},
		{
			name: "begin_and_end_in_one_step",
			events: []physics.SensorEvents{
				{Begin: []physics.SensorEvent{touch}, End: []physics.SensorEvent{touch}},
			},
			want:    Airborne,
			changed: []bool{false},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGroundSensor(foot)
			for i, ev := range tc.events {
				assert.Equal(t, tc.changed[i], g.Handle(ev), "step %d", i)
			}
			assert.Equal(t, tc.want, g.State())
			assert.Equal(t, tc.want == Grounded, g.Grounded())
			assert.GreaterOrEqual(t, g.Contacts(), 0)
		})
	}
}

func TestGroundSensorCountsContacts(t *testing.T) {
	foot := physics.ShapeID{Index: 1, Generation: 1, World: 1}
	a := physics.SensorEvent{Sensor: foot, Visitor: physics.ShapeID{Index: 5, Generation: 1, World: 1}}
	b := physics.SensorEvent{Sensor: foot, Visitor: physics.ShapeID{Index: 6, Generation: 1, World: 1}}

	g := NewGroundSensor(foot)
	assert.True(t, g.Begin(a))
	assert.False(t, g.Begin(b))
	assert.Equal(t, 2, g.Contacts())
	assert.False(t, g.End(a))
	assert.True(t, g.Grounded())
	assert.True(t, g.End(b))
	assert.False(t, g.End(b))
	assert.Equal(t, 0, g.Contacts())
	assert.Equal(t, "airborne", g.State().String())
}
