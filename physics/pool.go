package physics

// pool hands out generational slots. A released slot goes on the free list
// and its generation is bumped so handles to the old occupant go stale.
type pool[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

type slot[T any] struct {
	gen   uint16
	alive bool
	value T
}

// alloc stores v and returns its 1-based index and generation.
func (p *pool[T]) alloc(v T) (uint32, uint16) {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, slot[T]{})
		idx = uint32(len(p.slots))
	}
	s := &p.slots[idx-1]
	s.alive = true
	s.value = v
	p.live++
	return idx, s.gen
}

func (p *pool[T]) get(idx uint32, gen uint16) (T, bool) {
	var zero T
	if idx == 0 || int(idx) > len(p.slots) {
		return zero, false
	}
	s := &p.slots[idx-1]
	if !s.alive || s.gen != gen {
		return zero, false
	}
	return s.value, true
}

func (p *pool[T]) release(idx uint32, gen uint16) bool {
	if _, ok := p.get(idx, gen); !ok {
		return false
	}
	s := &p.slots[idx-1]
	var zero T
	s.value = zero
	s.alive = false
	s.gen++
	p.free = append(p.free, idx)
	p.live--
	return true
}

// each visits live values in index order.
func (p *pool[T]) each(fn func(idx uint32, gen uint16, v T)) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.alive {
			fn(uint32(i+1), s.gen, s.value)
		}
	}
}
