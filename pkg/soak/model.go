package soak

import (
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-fastqueue/pkg/settings"
)

type opKind int

const (
	opEnqueue opKind = iota
	opDequeue
	opShrink
	opRead
)

func (o opKind) String() string {
	switch o {
	case opEnqueue:
		return "enqueue"
	case opDequeue:
		return "dequeue"
	case opShrink:
		return "shrink"
	case opRead:
		return "read"
	default:
		return "unknown"
	}
}

// opPicker chooses ops with probability proportional to their weight.
type opPicker struct {
	cumulative [4]int
}

func newOpPicker(cfg settings.Soak) (opPicker, error) {
	weights := [4]int{cfg.EnqueueWeight, cfg.DequeueWeight, cfg.ShrinkWeight, cfg.ReadWeight}
	var p opPicker
	total := 0
	for i, w := range weights {
		if w < 0 {
			return p, errors.Errorf("soak: negative weight for %s", opKind(i))
		}
		total += w
		p.cumulative[i] = total
	}
	if total == 0 {
		return p, errors.New("soak: all weights are zero")
	}
	return p, nil
}

func (p opPicker) pick(rng *rand.Rand) opKind {
	r := rng.IntN(p.cumulative[len(p.cumulative)-1])
	for i, c := range p.cumulative {
		if r < c {
			return opKind(i)
		}
	}
	return opRead
}

// compactAfter is the number of popped items the model tolerates before it
// copies the live items into a fresh slice.
const compactAfter = 64

// model is the reference FIFO the queue is compared against.
type model struct {
	items []int
	head  int // index of the front item in items
	peak  int // largest size reached, drives the expected growth capacity
}

func (m *model) push(v int) {
	m.items = append(m.items, v)
	if n := m.len(); n > m.peak {
		m.peak = n
	}
}

func (m *model) pop() {
	if m.len() == 0 {
		return
	}
	m.head++
	if m.head >= compactAfter && m.head*2 >= len(m.items) {
		m.items = slices.Clone(m.items[m.head:])
		m.head = 0
	}
}

func (m *model) len() int { return len(m.items) - m.head }

func (m *model) at(i int) int { return m.items[m.head+i] }
