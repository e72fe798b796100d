package core

import (
	"context"
	"sync/atomic"

	"streamstat/stats"
)

var shardIdCounter int32 = 0

// Shard owns a private moment accumulator and folds ingest buffers
// into it. A shard's accumulator is only read through Pipeline.Merged
// after a flush, so the single-owner contract of stats.Moments holds.
type Shard struct {
	id       int32
	moments  *stats.Moments
	rejected uint64
	barrier  *Barrier
}

func NewShard(barrier *Barrier) *Shard {
	return &Shard{
		id:      atomic.AddInt32(&shardIdCounter, 1),
		moments: stats.NewMoments(),
		barrier: barrier,
	}
}

// consume folds every value of the buffer. Values the accumulator
// rejects cannot be reported back to the appending caller from here,
// so they are counted instead of being silently dropped; the pipeline
// validates values up front, which keeps this counter at zero in
// normal operation.
func (s *Shard) consume(ib *IngestBuffer) {
	for pos := int64(0); pos < ib.Size; pos++ {
		_, value, _ := ib.Get(pos)
		if err := s.moments.Observe(value); err != nil {
			s.rejected++
		}
	}
}

func (s *Shard) Rejected() uint64 {
	return s.rejected
}

func (s *Shard) Run(
	ctx context.Context,
	shardQueue <-chan *IngestBuffer,
	emptyBuffers chan<- *IngestBuffer) {

	for {
		select {
		case ingestBuffer := <-shardQueue:
			if ingestBuffer == ConstShutdownIngestBuffer() {
				s.barrier.Notify()
				return
			} else if ingestBuffer == ConstFlushIngestBuffer() {
				s.barrier.Notify()
				continue
			} else {
				s.consume(ingestBuffer)
				ingestBuffer.Clear()
				emptyBuffers <- ingestBuffer
			}
		case <-ctx.Done():
			return
		}
	}
}
