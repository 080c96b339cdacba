package queue

import "github.com/pkg/errors"

// ErrOutOfRange is returned when no element exists at the requested position.
var ErrOutOfRange = errors.New("queue: index out of range")

func outOfRange(index, size int) error {
	return errors.Wrapf(ErrOutOfRange, "index %d, size %d", index, size)
}

func emptyQueue() error {
	return errors.WithMessage(ErrOutOfRange, "queue is empty")
}
