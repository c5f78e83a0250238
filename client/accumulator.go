package client

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/arloliu/tsline/internal/hash"
	"github.com/arloliu/tsline/internal/options"
	"github.com/arloliu/tsline/lineprotocol"
)

// DefaultBulkSize is the pending-point threshold that triggers a flush.
const DefaultBulkSize = 64

// FlushFunc receives the drained batch. The accumulator's static tags ride
// along as the batch's tags.
type FlushFunc func(batch lineprotocol.Batch) error

// Accumulator buffers points in memory and hands them to a flush callback in
// bulk, grouped by series. It decouples point production from transport: wire
// the callback to Client.Write, UDPClient.Write or anything else.
//
// An Accumulator is safe for concurrent use. The callback runs outside the
// internal lock, so it may add points back into the accumulator.
type Accumulator struct {
	mu       sync.Mutex
	flush    FlushFunc
	bulkSize int
	static   map[string]string
	groups   map[uint64][]lineprotocol.Point
	order    []uint64
	count    int
}

// AccumulatorOption configures an Accumulator.
type AccumulatorOption = options.Option[*Accumulator]

// WithBulkSize sets the pending-point threshold that triggers a flush.
func WithBulkSize(n int) AccumulatorOption {
	return options.New(func(a *Accumulator) error {
		if n <= 0 {
			return fmt.Errorf("bulk size must be positive, got %d", n)
		}
		a.bulkSize = n

		return nil
	})
}

// WithStaticTags attaches tags to every flushed batch. Per-point tags win on
// key collisions, following batch encoding semantics.
func WithStaticTags(tags map[string]string) AccumulatorOption {
	return options.NoError(func(a *Accumulator) {
		a.static = maps.Clone(tags)
	})
}

// NewAccumulator creates an Accumulator around a flush callback.
//
// Parameters:
//   - flush: required; receives each drained batch.
//   - opts: optional settings (WithBulkSize, WithStaticTags).
//
// Returns:
//   - *Accumulator: the configured accumulator.
//   - error: when flush is nil or an option fails.
func NewAccumulator(flush FlushFunc, opts ...AccumulatorOption) (*Accumulator, error) {
	if flush == nil {
		return nil, errors.New("flush callback is required")
	}

	a := &Accumulator{
		flush:    flush,
		bulkSize: DefaultBulkSize,
		groups:   make(map[uint64][]lineprotocol.Point),
	}

	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	return a, nil
}

// Add buffers points, bucketing them by series key. Reaching the bulk size
// drains everything pending into one flush call.
//
// A flush error propagates to the caller; the drained points are not
// re-queued.
func (a *Accumulator) Add(points ...lineprotocol.Point) error {
	a.mu.Lock()

	for _, pt := range points {
		key := hash.Series(pt.Measurement, pt.Tags)

		if _, ok := a.groups[key]; !ok {
			a.order = append(a.order, key)
		}

		a.groups[key] = append(a.groups[key], pt)
		a.count++
	}

	if a.count < a.bulkSize {
		a.mu.Unlock()
		return nil
	}

	drained := a.drainLocked()
	a.mu.Unlock()

	return a.dispatch(drained)
}

// Flush drains everything pending into the callback, regardless of the bulk
// size. Flushing an empty accumulator is a no-op.
func (a *Accumulator) Flush() error {
	a.mu.Lock()
	drained := a.drainLocked()
	a.mu.Unlock()

	return a.dispatch(drained)
}

// Len reports the number of pending points.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.count
}

// drainLocked empties the buckets in first-seen series order. Callers hold
// the lock.
func (a *Accumulator) drainLocked() []lineprotocol.Point {
	if a.count == 0 {
		return nil
	}

	out := make([]lineprotocol.Point, 0, a.count)
	for _, key := range a.order {
		out = append(out, a.groups[key]...)
	}

	a.groups = make(map[uint64][]lineprotocol.Point, len(a.order))
	a.order = a.order[:0]
	a.count = 0

	return out
}

// dispatch hands drained points to the callback outside the lock.
func (a *Accumulator) dispatch(points []lineprotocol.Point) error {
	if len(points) == 0 {
		return nil
	}

	return a.flush(lineprotocol.Batch{Points: points, Tags: a.static})
}
