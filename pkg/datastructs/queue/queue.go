package queue

// Queue is a generic interface for FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the tail of the queue.
	Enqueue(item T)

	// Dequeue removes the item at the head of the queue.
	// It does nothing if the queue is empty.
	Dequeue()

	// Front returns the item at the head of the queue.
	Front() (T, error)

	// Back returns the item at the tail of the queue.
	Back() (T, error)

	// Size returns the number of items in the queue.
	Size() int

	// Capacity returns the number of allocated slots.
	Capacity() int
}
