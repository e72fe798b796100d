package core

import (
	"context"

	"streamstat/stats"
)

const QueueSize = 100

// Pipeline routes appended values into per-shard moment accumulators.
// Each shard goroutine owns its accumulator exclusively; Merged
// combines them, which is order-independent, so the reduction is
// equivalent to having folded every value into a single accumulator.
//
// With no buffers configured the pipeline runs unbuffered: values fold
// synchronously into a caller-owned accumulator and no goroutines are
// involved.
type Pipeline struct {
	ingester *Ingester
	shards   []*Shard
	barrier  *Barrier
	direct   *stats.Moments

	bufferSize  int64
	numElements int64

	emptyBuffers chan *IngestBuffer
	shardQueues  []chan *IngestBuffer
}

func NewPipeline(numShards int64) *Pipeline {
	if numShards < 1 {
		numShards = 1
	}
	emptyBuffers := make(chan *IngestBuffer, QueueSize)
	barrier := NewBarrier(int(numShards))

	shards := make([]*Shard, numShards)
	shardQueues := make([]chan *IngestBuffer, numShards)
	for i := range shards {
		shards[i] = NewShard(barrier)
		shardQueues[i] = make(chan *IngestBuffer, QueueSize)
	}

	return &Pipeline{
		ingester:     NewIngester(emptyBuffers, shardQueues),
		shards:       shards,
		barrier:      barrier,
		direct:       stats.NewMoments(),
		bufferSize:   0,
		numElements:  0,
		emptyBuffers: emptyBuffers,
		shardQueues:  shardQueues,
	}
}

func (p *Pipeline) Run(ctx context.Context) {
	for i, shard := range p.shards {
		go shard.Run(ctx, p.shardQueues[i], p.emptyBuffers)
	}
}

// Append validates the value and routes it into the pipeline. Invalid
// values are rejected here, before they enter any buffer, so a failed
// append changes no accumulator state anywhere.
func (p *Pipeline) Append(timestamp int64, value float64) error {
	if p.bufferSize > 0 {
		if err := stats.CheckFinite(value); err != nil {
			return err
		}
		p.ingester.Append(timestamp, value)
	} else {
		if err := p.direct.Observe(value); err != nil {
			return err
		}
	}
	p.numElements += 1
	return nil
}

// Flush drains in-flight buffers and waits until every shard has gone
// idle. Shutdown additionally terminates the shard goroutines.
func (p *Pipeline) Flush(shutdown bool) {
	if p.bufferSize == 0 {
		return
	}
	p.ingester.Flush(shutdown)
	p.barrier.Wait(len(p.shards))
}

// Merged returns a single accumulator over everything appended so far.
// When running buffered, call Flush first: the reduction reads the
// shard accumulators and is only consistent while the shards are idle.
func (p *Pipeline) Merged() *stats.Moments {
	merged := stats.NewMoments()
	*merged = *p.direct
	for _, shard := range p.shards {
		// Error impossible: MergeInto treats an empty operand as a no-op.
		_ = merged.MergeInto(shard.moments)
	}
	return merged
}

func (p *Pipeline) NumElements() int64 {
	return p.numElements
}

func (p *Pipeline) Rejected() uint64 {
	rejected := uint64(0)
	for _, shard := range p.shards {
		rejected += shard.Rejected()
	}
	return rejected
}

func (p *Pipeline) destroyEmptyBuffers() {
loop:
	for {
		select {
		case buffer := <-p.emptyBuffers:
			if buffer != nil {
				buffer.Clear()
			}
		default:
			break loop
		}
	}
}

// SetBufferSize allocates numBuffer recyclable buffers of
// eachBufferSize values and switches the pipeline to buffered
// ingestion. eachBufferSize zero switches back to unbuffered.
func (p *Pipeline) SetBufferSize(eachBufferSize int64, numBuffer int64) {
	p.destroyEmptyBuffers()
	p.bufferSize = eachBufferSize

	if p.bufferSize > 0 {
		for i := int64(0); i < numBuffer; i++ {
			p.emptyBuffers <- NewIngestBuffer(p.bufferSize)
		}
	}
}
