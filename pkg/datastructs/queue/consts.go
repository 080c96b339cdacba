package queue

import "math/bits"

const (
	// initialCapacity is the slot count of a freshly constructed RingQueue.
	initialCapacity = 1

	// growthFactor is the multiplier applied to capacity when a full queue receives an item.
	growthFactor = 2

	// maxReserve is the largest power of two an int can hold; Reserve refuses anything above it.
	maxReserve = 1 << (bits.UintSize - 2)
)
