package core

import (
	"context"
	"errors"

	"streamstat/stats"
	"streamstat/storage"
)

// Stream is one ingestion endpoint: values are appended one at a time
// and flow through the pipeline into moment accumulators, while the
// stream tracks arrival timestamps and inter-arrival moments itself.
// A checkpointed stream resumes by merging new data onto the restored
// seed accumulator.
type Stream struct {
	streamId   int64
	pipeline   *Pipeline
	store      *CheckpointStore
	seed       *stats.Moments
	backendSet bool
	running    bool

	firstArrivalTimestamp int64
	lastArrivalTimestamp  int64
	intervalStats         *stats.Moments
}

func NewStreamWithId(id int64, config *StoreConfig) *Stream {
	pipeline := NewPipeline(config.NumShards)
	pipeline.SetBufferSize(config.EachBufferSize, config.NumBuffer)

	return &Stream{
		streamId:              id,
		pipeline:              pipeline,
		store:                 nil,
		seed:                  stats.NewMoments(),
		backendSet:            false,
		running:               false,
		firstArrivalTimestamp: -1,
		lastArrivalTimestamp:  -1,
		intervalStats:         stats.NewMoments(),
	}
}

func (stream *Stream) Id() int64 {
	return stream.streamId
}

func (stream *Stream) SetBackend(backend storage.Backend, cacheEnabled bool) *Stream {
	stream.store = NewCheckpointStore(backend, cacheEnabled)
	stream.backendSet = true
	return stream
}

func (stream *Stream) Run(ctx context.Context) error {
	if !stream.backendSet {
		return errors.New("backend not set")
	}
	stream.running = true
	stream.pipeline.Run(ctx)
	return nil
}

// Append folds one (timestamp, value) arrival. The value is validated
// before any state changes: a rejected value perturbs neither the
// accumulators nor the arrival bookkeeping.
func (stream *Stream) Append(timestamp int64, value float64) error {
	if !stream.running {
		panic("stream is not running")
	}
	if err := stats.CheckFinite(value); err != nil {
		return err
	}

	if stream.firstArrivalTimestamp == -1 {
		stream.firstArrivalTimestamp = timestamp
	} else {
		interval := timestamp - stream.lastArrivalTimestamp
		_ = stream.intervalStats.Observe(float64(interval))
	}
	stream.lastArrivalTimestamp = timestamp

	return stream.pipeline.Append(timestamp, value)
}

// Flush drains the pipeline so that Moments reflects every value
// appended so far. Shutdown stops the shard goroutines; the stream
// accepts no further appends after that.
func (stream *Stream) Flush(shutdown bool) {
	if !stream.running {
		return
	}
	stream.pipeline.Flush(shutdown)
	if shutdown {
		stream.running = false
	}
}

// Moments returns the merged accumulator: the checkpointed seed plus
// everything appended since. Flush first when running buffered.
func (stream *Stream) Moments() *stats.Moments {
	merged := stream.pipeline.Merged()
	_ = merged.MergeInto(stream.seed)
	return merged
}

func (stream *Stream) IntervalStats() *stats.Moments {
	return stream.intervalStats
}

// Checkpoint flushes the pipeline and persists the current state.
func (stream *Stream) Checkpoint() error {
	if !stream.backendSet {
		return errors.New("backend not set")
	}
	if stream.running {
		stream.pipeline.Flush(false)
	}

	snapshot := &Snapshot{
		Values:                NewMomentsState(stream.Moments()),
		Intervals:             NewMomentsState(stream.intervalStats),
		FirstArrivalTimestamp: stream.firstArrivalTimestamp,
		LastArrivalTimestamp:  stream.lastArrivalTimestamp,
	}
	return stream.store.Put(stream.streamId, snapshot)
}

// PrimeUp restores the stream from its latest checkpoint. A stream
// with no checkpoint primes up empty.
func (stream *Stream) PrimeUp() error {
	if !stream.backendSet {
		return errors.New("backend not set")
	}
	snapshot, err := stream.store.Get(stream.streamId)
	if err != nil {
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return nil
		}
		return err
	}

	stream.seed = snapshot.Values.Moments()
	stream.intervalStats = snapshot.Intervals.Moments()
	stream.firstArrivalTimestamp = snapshot.FirstArrivalTimestamp
	stream.lastArrivalTimestamp = snapshot.LastArrivalTimestamp
	return nil
}
