package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGenerations(t *testing.T) {
	cases := []struct {
		name    string
		allocs  int
		release int
	}{
		{"single", 1, 0},
		{"release_middle", 3, 1},
		{"release_last", 2, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p pool[string]
			idx := make([]uint32, c.allocs)
			gen := make([]uint16, c.allocs)
			for i := 0; i < c.allocs; i++ {
				idx[i], gen[i] = p.alloc("v")
			}
			require.Equal(t, c.allocs, p.live)

			require.True(t, p.release(idx[c.release], gen[c.release]))
			assert.False(t, p.release(idx[c.release], gen[c.release]), "double release")
			_, ok := p.get(idx[c.release], gen[c.release])
			assert.False(t, ok, "stale handle must not resolve")

			reIdx, reGen := p.alloc("w")
			assert.Equal(t, idx[c.release], reIdx, "free slot is reused")
			assert.NotEqual(t, gen[c.release], reGen, "reused slot gets a new generation")
			v, ok := p.get(reIdx, reGen)
			require.True(t, ok)
			assert.Equal(t, "w", v)
		})
	}
}

func TestPoolRejectsNull(t *testing.T) {
	var p pool[int]
	_, ok := p.get(0, 0)
	assert.False(t, ok)
	_, ok = p.get(5, 0)
	assert.False(t, ok)
}

func TestHandleEqualityCoversAllFields(t *testing.T) {
	base := ShapeID{Index: 3, Generation: 1, World: 7}
	tests := []struct {
		name  string
		other ShapeID
		equal bool
	}{
		{"same", ShapeID{Index: 3, Generation: 1, World: 7}, true},
		{"index", ShapeID{Index: 4, Generation: 1, World: 7}, false},
		{"generation", ShapeID{Index: 3, Generation: 2, World: 7}, false},
		{"world", ShapeID{Index: 3, Generation: 1, World: 8}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, base == tc.other)
		})
	}
	assert.True(t, ShapeID{}.IsNull())
	assert.False(t, base.IsNull())
}
