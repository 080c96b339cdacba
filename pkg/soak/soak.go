package soak

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-fastqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-fastqueue/pkg/settings"
	"github.com/huynhanx03/go-fastqueue/pkg/utils"
)

// ErrInvariant is returned when the queue disagrees with the reference model.
var ErrInvariant = errors.New("soak: invariant violated")

// cancelCheckEvery is how many ops a worker runs between context checks.
const cancelCheckEvery = 1024

// Report summarises a soak run across all workers.
type Report struct {
	Ops         int64
	Grows       int64
	Shrinks     int64
	MaxCapacity int64
}

// Run drives cfg.Workers independent queues with random operations and checks
// each one against a slice model after every step. Each worker owns its queue.
func Run(ctx context.Context, cfg settings.Soak, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		return nil, errors.New("soak: workers must be positive")
	}
	picker, err := newOpPicker(cfg)
	if err != nil {
		return nil, err
	}

	var report Report
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		s := &scenario{
			id:     uuid.NewString(),
			rng:    rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(w))),
			picker: picker,
			ops:    cfg.OpsPerWorker,
			queue:  queue.NewRing[int](),
			report: &report,
		}
		s.logger = logger.With(zap.String("run_id", s.id), zap.Int("worker", w))
		s.queue.WithLogger(s.logger)

		g.Go(func() error {
			return s.run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("soak run failed", zap.Error(err))
		return &report, err
	}

	logger.Info("soak run finished",
		zap.Int64("ops", report.Ops),
		zap.Int64("grows", report.Grows),
		zap.Int64("shrinks", report.Shrinks),
		zap.Int64("max_capacity", report.MaxCapacity),
	)
	return &report, nil
}

// scenario is one worker's queue, model and random source.
type scenario struct {
	id     string
	rng    *rand.Rand
	picker opPicker
	ops    int
	queue  *queue.RingQueue[int]
	model  model
	report *Report
	logger *zap.Logger

	shrunk bool // capacity no longer follows the power-of-two sequence
	next   int
}

func (s *scenario) run(ctx context.Context) error {
	s.logger.Debug("scenario started", zap.Int("ops", s.ops))

	var grows, shrinks int64
	for step := 0; step < s.ops; step++ {
		if step%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "run %s stopped at step %d", s.id, step)
			}
		}

		op := s.picker.pick(s.rng)
		capBefore := s.queue.Capacity()
		if err := s.apply(op); err != nil {
			return errors.Wrapf(err, "run %s step %d op %s", s.id, step, op)
		}
		capAfter := s.queue.Capacity()

		switch {
		case op == opShrink:
			shrinks++
		case capAfter > capBefore:
			grows++
		}
		updateMax(&s.report.MaxCapacity, int64(capAfter))

		if err := s.check(); err != nil {
			return errors.Wrapf(err, "run %s step %d op %s", s.id, step, op)
		}
	}

	atomic.AddInt64(&s.report.Ops, int64(s.ops))
	atomic.AddInt64(&s.report.Grows, grows)
	atomic.AddInt64(&s.report.Shrinks, shrinks)
	s.logger.Debug("scenario finished",
		zap.Int64("grows", grows),
		zap.Int64("shrinks", shrinks),
		zap.Int("size", s.queue.Size()),
	)
	return nil
}

// apply performs op on both the queue and the model.
func (s *scenario) apply(op opKind) error {
	switch op {
	case opEnqueue:
		s.queue.Enqueue(s.next)
		s.model.push(s.next)
		s.next++
	case opDequeue:
		s.queue.Dequeue()
		s.model.pop()
	case opShrink:
		s.queue.ShrinkToFit()
		s.shrunk = true
		want := max(s.model.len(), 1)
		if got := s.queue.Capacity(); got != want {
			return errors.Wrapf(ErrInvariant, "capacity after shrink %d, want %d", got, want)
		}
	case opRead:
		return s.checkRandomAt()
	}
	return nil
}

// check verifies the queue against the model.
func (s *scenario) check() error {
	size, capacity := s.queue.Size(), s.queue.Capacity()
	if size != s.model.len() {
		return errors.Wrapf(ErrInvariant, "size %d, model %d", size, s.model.len())
	}
	if capacity < 1 || size > capacity {
		return errors.Wrapf(ErrInvariant, "size %d, capacity %d", size, capacity)
	}
	if !s.shrunk && capacity != utils.GrowthCapacity(s.model.peak) {
		return errors.Wrapf(ErrInvariant, "capacity %d, want %d for peak %d", capacity, utils.GrowthCapacity(s.model.peak), s.model.peak)
	}

	if size == 0 {
		if _, err := s.queue.Front(); !errors.Is(err, queue.ErrOutOfRange) {
			return errors.Wrap(ErrInvariant, "front on empty queue did not fail")
		}
		if _, err := s.queue.Back(); !errors.Is(err, queue.ErrOutOfRange) {
			return errors.Wrap(ErrInvariant, "back on empty queue did not fail")
		}
		return nil
	}

	front, err := s.queue.Front()
	if err != nil {
		return errors.Wrap(err, "front")
	}
	if want := s.model.at(0); front != want {
		return errors.Wrapf(ErrInvariant, "front %d, want %d", front, want)
	}
	back, err := s.queue.Back()
	if err != nil {
		return errors.Wrap(err, "back")
	}
	if want := s.model.at(size - 1); back != want {
		return errors.Wrapf(ErrInvariant, "back %d, want %d", back, want)
	}
	return nil
}

// checkRandomAt compares one random 1-based position and the bounds around it.
func (s *scenario) checkRandomAt() error {
	size := s.queue.Size()
	if _, err := s.queue.At(0); !errors.Is(err, queue.ErrOutOfRange) {
		return errors.Wrap(ErrInvariant, "At(0) did not fail")
	}
	if _, err := s.queue.At(size + 1); !errors.Is(err, queue.ErrOutOfRange) {
		return errors.Wrapf(ErrInvariant, "At(%d) past size did not fail", size+1)
	}
	if size == 0 {
		return nil
	}

	index := s.rng.IntN(size) + 1
	got, err := s.queue.At(index)
	if err != nil {
		return errors.Wrapf(err, "At(%d)", index)
	}
	if want := s.model.at(index - 1); got != want {
		return errors.Wrapf(ErrInvariant, "At(%d) = %d, want %d", index, got, want)
	}
	return nil
}

func updateMax(dst *int64, v int64) {
	for {
		cur := atomic.LoadInt64(dst)
		if v <= cur || atomic.CompareAndSwapInt64(dst, cur, v) {
			return
		}
	}
}
